// Package pricing computes checkout totals from a cart snapshot, the
// product lookup and an optionally applied promo code.
package pricing

import (
	"math"

	"checkout-service/internal/models"
)

// Lookup resolves a product by ID; ok=false while the catalog has not
// loaded that product yet.
type Lookup interface {
	Get(productID string) (models.Product, bool)
}

// Quote is the priced breakdown of a cart
type Quote struct {
	Subtotal    float64 `json:"subtotal"`
	Discount    float64 `json:"discount"`
	ShippingFee float64 `json:"shippingFee"`
	Total       float64 `json:"total"`
}

// Engine computes quotes with a configured base shipping fee
type Engine struct {
	baseShippingFee float64
}

// NewEngine creates a pricing engine
func NewEngine(baseShippingFee float64) *Engine {
	return &Engine{baseShippingFee: baseShippingFee}
}

// Quote prices a cart snapshot. Entries whose product is missing from the
// lookup contribute 0 to the subtotal: a partially loaded catalog is a
// transient state, not an error. The total is clamped at 0.
func (e *Engine) Quote(snapshot []models.CartEntry, lookup Lookup, applied *models.PromoCode) Quote {
	var subtotal float64
	for _, entry := range snapshot {
		if p, ok := lookup.Get(entry.ProductID); ok {
			subtotal += p.Price * float64(entry.Quantity)
		}
	}

	var discount float64
	if applied != nil && applied.Type == models.PromoTypePercentage {
		discount = subtotal * applied.Discount / 100
	}

	shippingFee := e.baseShippingFee
	if applied != nil && applied.Type == models.PromoTypeFreeShipping {
		shippingFee = 0
	}

	total := subtotal - discount + shippingFee
	if total < 0 {
		total = 0
	}

	return Quote{
		Subtotal:    subtotal,
		Discount:    discount,
		ShippingFee: shippingFee,
		Total:       total,
	}
}

// RoundPrice converts a display price to the integer unit price recorded in
// order payloads, rounding to the nearest whole currency unit.
func RoundPrice(price float64) int64 {
	return int64(math.Round(price))
}
