package models

import "time"

// User represents a customer (or admin) of the store.
type User struct {
	ID        string           `json:"id" validate:"omitempty,uuid"`
	Username  string           `json:"username" validate:"required,min=3,max=100"`
	Email     string           `json:"email" validate:"required,email"`
	Password  string           `json:"password,omitempty" validate:"omitempty,min=6"` // never returned by the backend
	IsAdmin   bool             `json:"is_admin"`
	Address   *ShippingAddress `json:"address,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}
