package services

import (
	"context"
	"sync"

	"plantshop/internal/api"
	"plantshop/internal/models"
	"plantshop/internal/pricing"
)

// CartService is the client-side cart store. Every mutation goes to the
// remote cart endpoint and, on success, the local snapshot is replaced
// wholesale with the authoritative cart the server returned. A failed
// request leaves the prior snapshot untouched and records the error for
// the UI to surface; retry is always a manual user action.
type CartService struct {
	api api.CartAPI

	mu      sync.RWMutex
	cart    models.Cart
	loading bool
	err     string
}

// NewCartService creates a cart store backed by the given API surface.
func NewCartService(cartAPI api.CartAPI) *CartService {
	return &CartService{api: cartAPI}
}

// Refresh replaces the local snapshot with the server's current cart.
func (s *CartService) Refresh(ctx context.Context) error {
	return s.apply(func() (*models.Cart, error) {
		return s.api.GetCart(ctx)
	})
}

// AddItem adds quantity of a product to the cart. The server merges it
// into an existing line for the same product if one exists.
func (s *CartService) AddItem(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	return s.apply(func() (*models.Cart, error) {
		return s.api.AddCartItem(ctx, productID, quantity)
	})
}

// UpdateQuantity sets the absolute quantity of a cart line. A quantity
// of zero or less removes the line instead.
func (s *CartService) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, productID)
	}
	return s.apply(func() (*models.Cart, error) {
		return s.api.UpdateCartItem(ctx, productID, quantity)
	})
}

// RemoveItem deletes a cart line.
func (s *CartService) RemoveItem(ctx context.Context, productID string) error {
	return s.apply(func() (*models.Cart, error) {
		return s.api.RemoveCartItem(ctx, productID)
	})
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context) error {
	s.setLoading()
	err := s.api.ClearCart(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = err.Error()
		return err
	}
	s.cart = models.Cart{}
	s.err = ""
	return nil
}

// apply runs one remote cart call and installs the returned snapshot.
func (s *CartService) apply(call func() (*models.Cart, error)) error {
	s.setLoading()
	cart, err := call()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = err.Error()
		return err
	}
	s.cart = *cart
	s.err = ""
	return nil
}

func (s *CartService) setLoading() {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
}

// Lines returns a copy of the current cart lines in display order.
func (s *CartService) Lines() []models.CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lines := make([]models.CartLine, len(s.cart.Lines))
	copy(lines, s.cart.Lines)
	return lines
}

// TotalItems is the sum of line quantities.
func (s *CartService) TotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.TotalItems()
}

// TotalPrice is the sum of price*quantity over the lines.
func (s *CartService) TotalPrice() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return pricing.CartTotal(s.cart.Lines)
}

// Loading reports whether a cart request is in flight.
func (s *CartService) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Error returns the last request error, or "" when the store is clean.
func (s *CartService) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// DismissError clears the surfaced error banner.
func (s *CartService) DismissError() {
	s.mu.Lock()
	s.err = ""
	s.mu.Unlock()
}
