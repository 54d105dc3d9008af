package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"plantshop/internal/api"
	"plantshop/internal/models"
	"plantshop/internal/pricing"
)

// CheckoutStep identifies the current page of the checkout wizard.
type CheckoutStep int

const (
	StepShipping CheckoutStep = iota
	StepPayment
	StepReview
)

// CheckoutService orchestrates the shipping -> payment -> review flow.
// Network calls on submit are strictly sequenced (address save, order
// create, cart clear) so a later step never races an earlier one's side
// effect, and nothing mutates remote state before the order itself is
// confirmed.
type CheckoutService struct {
	cart     *CartService
	orders   *OrderService
	users    api.UserAPI
	payments api.OrderAPI
	validate *validator.Validate

	// cardConfirmDelay spaces the simulated asynchronous card
	// confirmation from order creation.
	cardConfirmDelay time.Duration

	mu          sync.Mutex
	step        CheckoutStep
	address     models.ShippingAddress
	payment     models.PaymentMethod
	fieldErrors map[string]string
}

// CheckoutOption configures a CheckoutService.
type CheckoutOption func(*CheckoutService)

// WithCardConfirmDelay overrides the simulated card confirmation delay.
func WithCardConfirmDelay(d time.Duration) CheckoutOption {
	return func(s *CheckoutService) { s.cardConfirmDelay = d }
}

// NewCheckoutService wires the checkout flow to the cart and order
// stores plus the profile and payment API surfaces.
func NewCheckoutService(cart *CartService, orders *OrderService, users api.UserAPI, payments api.OrderAPI, opts ...CheckoutOption) *CheckoutService {
	s := &CheckoutService{
		cart:             cart,
		orders:           orders,
		users:            users,
		payments:         payments,
		validate:         validator.New(),
		cardConfirmDelay: 2 * time.Second,
		payment:          models.PaymentCash,
		fieldErrors:      make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Step returns the current wizard step.
func (s *CheckoutService) Step() CheckoutStep {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// SetAddress updates the shipping form as the user types. No validation
// happens here; the displayed shipping price stays live via
// ShippingPrice.
func (s *CheckoutService) SetAddress(addr models.ShippingAddress) {
	s.mu.Lock()
	s.address = addr
	s.mu.Unlock()
}

// Address returns the current shipping form contents.
func (s *CheckoutService) Address() models.ShippingAddress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.address
}

// ShippingPrice is the flat fee for the district currently in the form,
// recomputed on every call so the displayed total tracks edits live.
func (s *CheckoutService) ShippingPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return float64(pricing.ShippingCost(s.address.State))
}

// ConfirmShipping validates the shipping form and, if every field is
// present, advances to the payment step. Validation failure blocks
// progression and records field-level errors; nothing is saved.
func (s *CheckoutService) ConfirmShipping() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validate.Struct(s.address); err != nil {
		s.fieldErrors = make(map[string]string)
		for _, fieldErr := range err.(validator.ValidationErrors) {
			s.fieldErrors[fieldErr.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", fieldErr.Field(), fieldErr.Tag())
		}
		return false
	}
	s.fieldErrors = make(map[string]string)
	s.step = StepPayment
	return true
}

// FieldErrors returns the shipping-form validation errors by field name.
func (s *CheckoutService) FieldErrors() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	errs := make(map[string]string, len(s.fieldErrors))
	for k, v := range s.fieldErrors {
		errs[k] = v
	}
	return errs
}

// SelectPayment records the payment method and advances to review.
func (s *CheckoutService) SelectPayment(method models.PaymentMethod) error {
	if method != models.PaymentCash && method != models.PaymentCard {
		return fmt.Errorf("unknown payment method %q", method)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != StepPayment {
		return fmt.Errorf("payment selection is only available from the payment step")
	}
	s.payment = method
	s.step = StepReview
	return nil
}

// Submit places the order from the review step. The sequence is strict:
// best-effort address save, then order creation, then cart clear. If
// order creation fails the flow halts with the error surfaced and the
// cart untouched. A cart-clear failure after a created order is logged
// but does not undo the confirmation. For card orders a simulated
// asynchronous payment confirmation is scheduled; its failure is
// reported but never reverts the order.
func (s *CheckoutService) Submit(ctx context.Context) (*models.Order, error) {
	s.mu.Lock()
	if s.step != StepReview {
		s.mu.Unlock()
		return nil, fmt.Errorf("checkout must reach the review step before submitting")
	}
	address := s.address
	payment := s.payment
	s.mu.Unlock()

	lines := s.cart.Lines()
	if len(lines) == 0 {
		return nil, fmt.Errorf("cannot place an order with an empty cart")
	}

	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, models.OrderItem{
			ProductID: line.Product.ID,
			Name:      line.Product.Name,
			Price:     line.Product.Price,
			Quantity:  line.Quantity,
			Image:     line.Product.Images.Primary(),
		})
	}

	itemsPrice := pricing.ItemsPrice(items)
	shippingPrice := float64(pricing.ShippingCost(address.State))
	req := models.OrderRequest{
		Items:           items,
		ShippingAddress: address,
		PaymentMethod:   payment,
		ItemsPrice:      itemsPrice,
		ShippingPrice:   shippingPrice,
		TotalPrice:      pricing.TotalPrice(itemsPrice, shippingPrice, 0),
	}

	// Persisting the address to the profile is best-effort only; a
	// failure here must not abort order placement.
	if err := s.users.SaveAddress(ctx, address); err != nil {
		log.Printf("Warning: failed to save shipping address to profile: %v", err)
	}

	order, err := s.orders.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	// The order is confirmed at this point; a failed cart clear leaves
	// stale lines behind but never rolls back the order.
	if err := s.cart.Clear(ctx); err != nil {
		log.Printf("Warning: failed to clear cart after order %s: %v", order.ID, err)
	}

	if payment == models.PaymentCard {
		s.scheduleCardConfirmation(order.ID)
	}

	s.mu.Lock()
	s.step = StepShipping
	s.mu.Unlock()
	return order, nil
}

// scheduleCardConfirmation simulates the payment gateway's asynchronous
// confirmation callback. It is decoupled from order creation: a failed
// payment update is reported but the created order stands.
func (s *CheckoutService) scheduleCardConfirmation(orderID string) {
	time.AfterFunc(s.cardConfirmDelay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := s.payments.PayOrder(ctx, orderID); err != nil {
			log.Printf("Warning: payment confirmation for order %s failed: %v", orderID, err)
		}
	})
}
