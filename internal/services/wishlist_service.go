package services

import (
	"context"
	"sync"

	"plantshop/internal/api"
	"plantshop/internal/models"
)

// WishlistService is the saved-products store. Like the cart, every
// mutation returns the authoritative server list, which replaces the
// local snapshot wholesale.
type WishlistService struct {
	api api.WishlistAPI

	mu       sync.RWMutex
	products []models.Product
	loading  bool
	err      string
}

// NewWishlistService creates a wishlist store over the given API surface.
func NewWishlistService(wishlistAPI api.WishlistAPI) *WishlistService {
	return &WishlistService{api: wishlistAPI}
}

// Refresh fetches the current wishlist.
func (s *WishlistService) Refresh(ctx context.Context) error {
	return s.apply(func() ([]models.Product, error) {
		return s.api.GetWishlist(ctx)
	})
}

// Add saves a product to the wishlist.
func (s *WishlistService) Add(ctx context.Context, productID string) error {
	return s.apply(func() ([]models.Product, error) {
		return s.api.AddToWishlist(ctx, productID)
	})
}

// Remove drops a product from the wishlist.
func (s *WishlistService) Remove(ctx context.Context, productID string) error {
	return s.apply(func() ([]models.Product, error) {
		return s.api.RemoveFromWishlist(ctx, productID)
	})
}

// Toggle adds the product if absent, removes it if present.
func (s *WishlistService) Toggle(ctx context.Context, productID string) error {
	if s.Contains(productID) {
		return s.Remove(ctx, productID)
	}
	return s.Add(ctx, productID)
}

// Contains reports whether the product is in the local snapshot.
func (s *WishlistService) Contains(productID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == productID {
			return true
		}
	}
	return false
}

// Products returns a copy of the wishlist snapshot.
func (s *WishlistService) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	products := make([]models.Product, len(s.products))
	copy(products, s.products)
	return products
}

// Error returns the last wishlist error, or "".
func (s *WishlistService) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *WishlistService) apply(call func() ([]models.Product, error)) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	products, err := call()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = err.Error()
		return err
	}
	s.products = products
	s.err = ""
	return nil
}
