// Package pricing holds the pure price computations shared by the cart
// summary and the checkout summary. Keeping a single implementation here
// is a correctness requirement: the two call sites historically drifted.
package pricing

import (
	"math"
	"strings"

	"plantshop/internal/models"
)

// Flat shipping fees in currency units.
const (
	RajshahiShippingFee = 50
	DefaultShippingFee  = 100
)

// ShippingCost maps a shipping address district to a flat fee. The rule
// is a case-insensitive substring match on "rajshahi" after trimming, so
// "Rajshahi Sadar" and " RAJSHAHI " both qualify. Every other district,
// including an empty one, pays the default fee.
func ShippingCost(district string) int {
	d := strings.ToLower(strings.TrimSpace(district))
	if strings.Contains(d, "rajshahi") {
		return RajshahiShippingFee
	}
	return DefaultShippingFee
}

// ItemsPrice is the sum of price*quantity over order items, rounded to
// two decimals.
func ItemsPrice(items []models.OrderItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return round2(total)
}

// CartTotal is the sum of product price*quantity over cart lines,
// rounded to two decimals.
func CartTotal(lines []models.CartLine) float64 {
	var total float64
	for _, line := range lines {
		total += line.Product.Price * float64(line.Quantity)
	}
	return round2(total)
}

// TotalPrice combines the item, shipping and tax components.
func TotalPrice(itemsPrice, shippingPrice, taxPrice float64) float64 {
	return round2(itemsPrice + shippingPrice + taxPrice)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
