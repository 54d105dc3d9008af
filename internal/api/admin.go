package api

import (
	"context"
	"net/http"
	"net/url"

	"plantshop/internal/models"
)

// CreateProduct adds a catalog entry (admin only).
func (c *Client) CreateProduct(ctx context.Context, p models.Product) (*models.Product, error) {
	var created models.Product
	if err := c.do(ctx, http.MethodPost, "/api/v1/admin/products", p, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateProduct replaces a catalog entry (admin only).
func (c *Client) UpdateProduct(ctx context.Context, p models.Product) (*models.Product, error) {
	var updated models.Product
	if err := c.do(ctx, http.MethodPut, "/api/v1/admin/products/"+url.PathEscape(p.ID), p, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteProduct removes a catalog entry (admin only).
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/admin/products/"+url.PathEscape(id), nil, nil)
}

// CreateCategory adds a browse category (admin only).
func (c *Client) CreateCategory(ctx context.Context, cat models.Category) (*models.Category, error) {
	var created models.Category
	if err := c.do(ctx, http.MethodPost, "/api/v1/admin/categories", cat, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteCategory removes a browse category (admin only).
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/admin/categories/"+url.PathEscape(id), nil, nil)
}

// ListAllOrders fetches every order in the store (admin only).
func (c *Client) ListAllOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.do(ctx, http.MethodGet, "/api/v1/admin/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrderStatus advances an order through the fulfilment flow
// (admin only).
func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	var order models.Order
	body := struct {
		Status models.OrderStatus `json:"status"`
	}{Status: status}
	if err := c.do(ctx, http.MethodPatch, "/api/v1/admin/orders/"+url.PathEscape(id)+"/status", body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListUsers fetches every registered user (admin only).
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.do(ctx, http.MethodGet, "/api/v1/admin/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}
