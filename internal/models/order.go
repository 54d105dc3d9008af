package models

import "time"

// OrderStatus is the backend-driven lifecycle state of an order.
type OrderStatus string

// PaymentMethod selects how an order is paid.
type PaymentMethod string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"

	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

// ValidOrderStatus reports whether s is a known status value.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether the status admits no further transitions.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo reports whether the fulfilment flow allows moving from
// s to next. The flow never skips a step: pending -> processing ->
// shipped -> delivered, with cancellation allowed from pending or
// processing only.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return next == OrderStatusProcessing || next == OrderStatusCancelled
	case OrderStatusProcessing:
		return next == OrderStatusShipped || next == OrderStatusCancelled
	case OrderStatusShipped:
		return next == OrderStatusDelivered
	}
	return false
}

// OrderItem is an immutable snapshot of a cart line taken at order
// creation time. It deliberately copies name, price and image so a
// historical order keeps rendering correctly even if the product is
// later renamed, repriced or deleted.
type OrderItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image"`
}

// ShippingAddress is the delivery destination collected at checkout.
// State holds the district, which alone determines the shipping fee.
type ShippingAddress struct {
	Street  string `json:"street" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	ZipCode string `json:"zip_code" validate:"required"`
	Country string `json:"country" validate:"required"`
}

// Order is a customer order as reported by the backend.
type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	Items           []OrderItem     `json:"items"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	PaymentMethod   PaymentMethod   `json:"payment_method"`
	ItemsPrice      float64         `json:"items_price"`
	ShippingPrice   float64         `json:"shipping_price"`
	TaxPrice        float64         `json:"tax_price"`
	TotalPrice      float64         `json:"total_price"`
	Status          OrderStatus     `json:"status"`
	IsPaid          bool            `json:"is_paid"`
	TrackingNumber  string          `json:"tracking_number,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
	DeliveredAt     *time.Time      `json:"delivered_at,omitempty"`
}

// Cancellable reports whether the customer may still cancel the order:
// not yet paid and not past the processing stage.
func (o *Order) Cancellable() bool {
	if o.IsPaid {
		return false
	}
	return o.Status == OrderStatusPending || o.Status == OrderStatusProcessing
}

// OrderRequest is the payload submitted to create an order. Prices are
// computed client-side for display and re-checked by the backend.
type OrderRequest struct {
	Items           []OrderItem     `json:"items" validate:"required,min=1,dive"`
	ShippingAddress ShippingAddress `json:"shipping_address" validate:"required"`
	PaymentMethod   PaymentMethod   `json:"payment_method" validate:"required,oneof=cash card"`
	ItemsPrice      float64         `json:"items_price"`
	ShippingPrice   float64         `json:"shipping_price"`
	TaxPrice        float64         `json:"tax_price"`
	TotalPrice      float64         `json:"total_price"`
}
