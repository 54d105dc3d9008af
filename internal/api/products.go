package api

import (
	"context"
	"net/http"
	"net/url"

	"plantshop/internal/models"
)

// ListProducts fetches the catalog, optionally filtered by a search term
// and/or category ID.
func (c *Client) ListProducts(ctx context.Context, q ProductQuery) ([]models.Product, error) {
	params := url.Values{}
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	if q.Category != "" {
		params.Set("category", q.Category)
	}
	path := "/api/v1/products"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var products []models.Product
	if err := c.do(ctx, http.MethodGet, path, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct fetches a single product by ID.
func (c *Client) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := c.do(ctx, http.MethodGet, "/api/v1/products/"+url.PathEscape(id), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// ListCategories fetches all browse categories.
func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := c.do(ctx, http.MethodGet, "/api/v1/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}
