package services

import (
	"context"
	"fmt"
	"sync"

	"plantshop/internal/api"
	"plantshop/internal/models"
)

// OrderService is the client-side order store: the active order, the
// user's order history, and the loading/error/success flags every async
// action drives through its pending/fulfilled/rejected phases. Status
// transitions are never computed locally; they always come from backend
// responses. The one exception is the optimistic cancel patch, which is
// tagged unconfirmed until the next authoritative fetch overwrites it.
type OrderService struct {
	api api.OrderAPI

	mu          sync.RWMutex
	current     *models.Order
	orders      []models.Order
	unconfirmed map[string]bool
	loading     bool
	err         string
	successMsg  string
}

// NewOrderService creates an order store backed by the given API surface.
func NewOrderService(orderAPI api.OrderAPI) *OrderService {
	return &OrderService{
		api:         orderAPI,
		unconfirmed: make(map[string]bool),
	}
}

// Create submits a new order. On success the created order becomes the
// active order and a success message is set for the confirmation view.
// Clearing the cart is deliberately not done here: the checkout flow
// triggers it as a follow-up so a cart-clear failure cannot block the
// order confirmation.
func (s *OrderService) Create(ctx context.Context, req models.OrderRequest) (*models.Order, error) {
	s.begin()
	order, err := s.api.CreateOrder(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = err.Error()
		return nil, err
	}
	s.current = order
	s.successMsg = fmt.Sprintf("Order %s placed successfully", order.ID)
	return order, nil
}

// Get fetches one order and makes it the active order. The response is
// authoritative, so any optimistic patch for that order is reconciled.
func (s *OrderService) Get(ctx context.Context, id string) (*models.Order, error) {
	s.begin()
	order, err := s.api.GetOrder(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = err.Error()
		return nil, err
	}
	s.current = order
	delete(s.unconfirmed, order.ID)
	s.patchListLocked(*order)
	return order, nil
}

// ListMine refreshes the user's order history. Every optimistic patch is
// discarded in favor of the fetched state.
func (s *OrderService) ListMine(ctx context.Context) ([]models.Order, error) {
	s.begin()
	orders, err := s.api.ListMyOrders(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = err.Error()
		return nil, err
	}
	s.orders = orders
	s.unconfirmed = make(map[string]bool)
	return orders, nil
}

// CanCancel reports whether the order, as locally known, is still
// cancellable: pending or processing and not yet paid. The UI uses this
// to enable the cancel control.
func (s *OrderService) CanCancel(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order := s.findLocked(id)
	return order != nil && order.Cancellable()
}

// Cancel cancels an order. A cancel attempt on an order that is no
// longer cancellable is rejected locally without a network call. On
// success the local list entry is patched to cancelled and tagged
// unconfirmed; callers should reconcile with a subsequent ListMine.
func (s *OrderService) Cancel(ctx context.Context, id string) error {
	s.mu.RLock()
	order := s.findLocked(id)
	cancellable := order != nil && order.Cancellable()
	s.mu.RUnlock()
	if !cancellable {
		return fmt.Errorf("order %s can no longer be cancelled", id)
	}

	s.begin()
	updated, err := s.api.CancelOrder(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = err.Error()
		return err
	}

	// Speculative local patch; the next authoritative fetch overwrites it.
	s.unconfirmed[id] = true
	if updated != nil {
		s.patchListLocked(*updated)
		if s.current != nil && s.current.ID == id {
			s.current = updated
		}
	}
	s.successMsg = fmt.Sprintf("Order %s cancelled", id)
	return nil
}

// Unconfirmed reports whether the order's local state is a speculative
// patch not yet confirmed by an authoritative fetch.
func (s *OrderService) Unconfirmed(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unconfirmed[id]
}

// Current returns the active order, if any.
func (s *OrderService) Current() *models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	order := *s.current
	return &order
}

// Orders returns a copy of the cached order history.
func (s *OrderService) Orders() []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	orders := make([]models.Order, len(s.orders))
	copy(orders, s.orders)
	return orders
}

// Loading reports whether an order request is in flight.
func (s *OrderService) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Error returns the last request error, or "".
func (s *OrderService) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// SuccessMessage returns the last success notification, or "".
func (s *OrderService) SuccessMessage() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.successMsg
}

// Dismiss clears the surfaced error and success notices.
func (s *OrderService) Dismiss() {
	s.mu.Lock()
	s.err = ""
	s.successMsg = ""
	s.mu.Unlock()
}

func (s *OrderService) begin() {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.successMsg = ""
	s.mu.Unlock()
}

func (s *OrderService) findLocked(id string) *models.Order {
	if s.current != nil && s.current.ID == id {
		return s.current
	}
	for i := range s.orders {
		if s.orders[i].ID == id {
			return &s.orders[i]
		}
	}
	return nil
}

func (s *OrderService) patchListLocked(order models.Order) {
	for i := range s.orders {
		if s.orders[i].ID == order.ID {
			s.orders[i] = order
			return
		}
	}
}
