package services

import (
	"context"
	"sync"

	"plantshop/internal/api"
	"plantshop/internal/models"
)

// ProductService is the catalog browsing store: the current product
// listing (optionally filtered), the category list, and the product
// detail view. Image normalization already happened at decode time, so
// everything here sees the canonical Image shape.
type ProductService struct {
	api api.ProductAPI

	mu         sync.RWMutex
	products   []models.Product
	categories []models.Category
	current    *models.Product
	loading    bool
	err        string
}

// NewProductService creates a catalog store over the given API surface.
func NewProductService(productAPI api.ProductAPI) *ProductService {
	return &ProductService{api: productAPI}
}

// Browse fetches the catalog with the given filters and caches it.
func (s *ProductService) Browse(ctx context.Context, q api.ProductQuery) ([]models.Product, error) {
	s.begin()
	products, err := s.api.ListProducts(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = err.Error()
		return nil, err
	}
	s.products = products
	return products, nil
}

// Get fetches one product for the detail view.
func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	s.begin()
	product, err := s.api.GetProduct(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = err.Error()
		return nil, err
	}
	s.current = product
	return product, nil
}

// Categories fetches and caches the browse categories.
func (s *ProductService) Categories(ctx context.Context) ([]models.Category, error) {
	s.begin()
	categories, err := s.api.ListCategories(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = err.Error()
		return nil, err
	}
	s.categories = categories
	return categories, nil
}

// Products returns the cached listing.
func (s *ProductService) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	products := make([]models.Product, len(s.products))
	copy(products, s.products)
	return products
}

// Current returns the cached detail-view product, or nil.
func (s *ProductService) Current() *models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	product := *s.current
	return &product
}

// Loading reports whether a catalog request is in flight.
func (s *ProductService) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Error returns the last catalog error, or "".
func (s *ProductService) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *ProductService) begin() {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()
}
