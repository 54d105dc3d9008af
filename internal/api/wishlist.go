package api

import (
	"context"
	"net/http"
	"net/url"

	"plantshop/internal/models"
)

// GetWishlist fetches the user's saved products.
func (c *Client) GetWishlist(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.do(ctx, http.MethodGet, "/api/v1/wishlist", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// AddToWishlist saves a product and returns the updated wishlist.
func (c *Client) AddToWishlist(ctx context.Context, productID string) ([]models.Product, error) {
	var products []models.Product
	body := struct {
		ProductID string `json:"product_id"`
	}{ProductID: productID}
	if err := c.do(ctx, http.MethodPost, "/api/v1/wishlist", body, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// RemoveFromWishlist drops a product and returns the updated wishlist.
func (c *Client) RemoveFromWishlist(ctx context.Context, productID string) ([]models.Product, error) {
	var products []models.Product
	if err := c.do(ctx, http.MethodDelete, "/api/v1/wishlist/"+url.PathEscape(productID), nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}
