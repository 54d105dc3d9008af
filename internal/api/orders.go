package api

import (
	"context"
	"net/http"
	"net/url"

	"plantshop/internal/models"
)

// CreateOrder submits a new order built from the cart at checkout.
func (c *Client) CreateOrder(ctx context.Context, req models.OrderRequest) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, http.MethodPost, "/api/v1/orders", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrder fetches one of the caller's orders by ID.
func (c *Client) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, http.MethodGet, "/api/v1/orders/"+url.PathEscape(id), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListMyOrders fetches the caller's order history, newest first.
func (c *Client) ListMyOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.do(ctx, http.MethodGet, "/api/v1/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// CancelOrder asks the backend to cancel a not-yet-shipped order.
func (c *Client) CancelOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, http.MethodPost, "/api/v1/orders/"+url.PathEscape(id)+"/cancel", nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// PayOrder records payment completion for a card order.
func (c *Client) PayOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, http.MethodPost, "/api/v1/orders/"+url.PathEscape(id)+"/pay", nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
