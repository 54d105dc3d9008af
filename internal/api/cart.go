package api

import (
	"context"
	"net/http"
	"net/url"

	"plantshop/internal/models"
)

type cartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// GetCart fetches the server-side cart snapshot.
func (c *Client) GetCart(ctx context.Context) (*models.Cart, error) {
	var cart models.Cart
	if err := c.do(ctx, http.MethodGet, "/api/v1/users/cart", nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddCartItem adds quantity of a product to the cart and returns the
// resulting authoritative snapshot.
func (c *Client) AddCartItem(ctx context.Context, productID string, quantity int) (*models.Cart, error) {
	var cart models.Cart
	body := cartItemRequest{ProductID: productID, Quantity: quantity}
	if err := c.do(ctx, http.MethodPost, "/api/v1/users/cart", body, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// UpdateCartItem sets the absolute quantity of a cart line.
func (c *Client) UpdateCartItem(ctx context.Context, productID string, quantity int) (*models.Cart, error) {
	var cart models.Cart
	body := struct {
		Quantity int `json:"quantity"`
	}{Quantity: quantity}
	if err := c.do(ctx, http.MethodPut, "/api/v1/users/cart/"+url.PathEscape(productID), body, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// RemoveCartItem deletes one cart line.
func (c *Client) RemoveCartItem(ctx context.Context, productID string) (*models.Cart, error) {
	var cart models.Cart
	if err := c.do(ctx, http.MethodDelete, "/api/v1/users/cart/"+url.PathEscape(productID), nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// ClearCart removes every line from the server-side cart.
func (c *Client) ClearCart(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/users/cart", nil, nil)
}
