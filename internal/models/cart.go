package models

import "time"

// CartLine is one product+quantity entry in a user's cart.
type CartLine struct {
	Product  Product   `json:"product"`
	Quantity int       `json:"quantity"`
	AddedAt  time.Time `json:"added_at"`
}

// Cart holds the user's current cart lines. The methods below are pure
// with respect to external state and are shared by the client selectors
// and the in-memory backend, so both sides compute totals the same way.
type Cart struct {
	Lines     []CartLine `json:"lines"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// AddLine merges a product into the cart: an existing line for the same
// product has its quantity incremented, otherwise a new line is appended.
// Quantities below 1 are treated as 1.
func (c *Cart) AddLine(p Product, qty int) {
	if qty < 1 {
		qty = 1
	}
	for i := range c.Lines {
		if c.Lines[i].Product.ID == p.ID {
			c.Lines[i].Quantity += qty
			c.UpdatedAt = time.Now()
			return
		}
	}
	c.Lines = append(c.Lines, CartLine{Product: p, Quantity: qty, AddedAt: time.Now()})
	c.UpdatedAt = time.Now()
}

// SetQuantity sets the quantity of the line for productID. A quantity of
// zero or less removes the line, so no line ever holds quantity <= 0.
func (c *Cart) SetQuantity(productID string, qty int) {
	if qty <= 0 {
		c.RemoveLine(productID)
		return
	}
	for i := range c.Lines {
		if c.Lines[i].Product.ID == productID {
			c.Lines[i].Quantity = qty
			c.UpdatedAt = time.Now()
			return
		}
	}
}

// RemoveLine deletes the line for productID, preserving line order.
func (c *Cart) RemoveLine(productID string) {
	for i := range c.Lines {
		if c.Lines[i].Product.ID == productID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			c.UpdatedAt = time.Now()
			return
		}
	}
}

// Clear removes every line.
func (c *Cart) Clear() {
	c.Lines = nil
	c.UpdatedAt = time.Now()
}

// TotalItems is the sum of line quantities.
func (c *Cart) TotalItems() int {
	total := 0
	for _, line := range c.Lines {
		total += line.Quantity
	}
	return total
}

// Find returns the line for productID, or nil.
func (c *Cart) Find(productID string) *CartLine {
	for i := range c.Lines {
		if c.Lines[i].Product.ID == productID {
			return &c.Lines[i]
		}
	}
	return nil
}
