package models

import "time"

// Product represents a plant or gardening item in the store catalog.
// The client treats it as a read-only snapshot from the backend; the
// authoritative stock count always lives server-side.
type Product struct {
	ID          string    `json:"id" validate:"omitempty,uuid"`
	Name        string    `json:"name" validate:"required,min=3,max=100"`
	Description string    `json:"description" validate:"omitempty,max=500"`
	Price       float64   `json:"price" validate:"required,gt=0"`
	Stock       int       `json:"stock" validate:"gte=0"`
	CategoryID  string    `json:"category_id" validate:"omitempty,uuid"`
	Images      ImageList `json:"images"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Category groups products for browsing (e.g. "Indoor", "Succulents").
type Category struct {
	ID          string `json:"id" validate:"omitempty,uuid"`
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
}
