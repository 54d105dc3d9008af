package services

import (
	"context"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"

	"plantshop/internal/api"
	"plantshop/internal/models"
)

// AdminService backs the admin console: catalog management, store-wide
// order oversight, and the user list. Product and category payloads are
// validated before any network call so obviously bad input never leaves
// the client.
type AdminService struct {
	api      api.AdminAPI
	uploads  api.UploadAPI
	validate *validator.Validate
}

// NewAdminService creates the admin console service.
func NewAdminService(adminAPI api.AdminAPI, uploads api.UploadAPI) *AdminService {
	return &AdminService{
		api:      adminAPI,
		uploads:  uploads,
		validate: validator.New(),
	}
}

// CreateProduct validates and creates a catalog entry.
func (s *AdminService) CreateProduct(ctx context.Context, p models.Product) (*models.Product, error) {
	if err := s.validate.Struct(p); err != nil {
		return nil, fmt.Errorf("invalid product: %w", err)
	}
	return s.api.CreateProduct(ctx, p)
}

// UpdateProduct validates and replaces a catalog entry.
func (s *AdminService) UpdateProduct(ctx context.Context, p models.Product) (*models.Product, error) {
	if p.ID == "" {
		return nil, fmt.Errorf("product ID is required for update")
	}
	if err := s.validate.Struct(p); err != nil {
		return nil, fmt.Errorf("invalid product: %w", err)
	}
	return s.api.UpdateProduct(ctx, p)
}

// DeleteProduct removes a catalog entry.
func (s *AdminService) DeleteProduct(ctx context.Context, id string) error {
	return s.api.DeleteProduct(ctx, id)
}

// UploadProductImage pushes an image and returns its hosted URL, ready
// to be attached to a product.
func (s *AdminService) UploadProductImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	return s.uploads.UploadImage(ctx, filename, r)
}

// CreateCategory validates and creates a browse category.
func (s *AdminService) CreateCategory(ctx context.Context, cat models.Category) (*models.Category, error) {
	if err := s.validate.Struct(cat); err != nil {
		return nil, fmt.Errorf("invalid category: %w", err)
	}
	return s.api.CreateCategory(ctx, cat)
}

// DeleteCategory removes a browse category.
func (s *AdminService) DeleteCategory(ctx context.Context, id string) error {
	return s.api.DeleteCategory(ctx, id)
}

// ListAllOrders fetches every order in the store.
func (s *AdminService) ListAllOrders(ctx context.Context) ([]models.Order, error) {
	return s.api.ListAllOrders(ctx)
}

// UpdateOrderStatus advances an order's fulfilment status. Unknown
// statuses are rejected before the network call; step-skipping is
// rejected by the backend, which owns the transition rules.
func (s *AdminService) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, fmt.Errorf("invalid order status: %s", status)
	}
	return s.api.UpdateOrderStatus(ctx, id, status)
}

// ListUsers fetches every registered user.
func (s *AdminService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.api.ListUsers(ctx)
}
