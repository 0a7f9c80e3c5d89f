package models

import "time"

// Product is a catalog entry, read-only from the checkout core's perspective
type Product struct {
	ID       string  `db:"id" json:"id"`
	Name     string  `db:"name" json:"name"`
	Price    float64 `db:"price" json:"price"`
	ImageURL string  `db:"image_url" json:"imageUrl"`
	Category string  `db:"category" json:"category"`
}

// CartEntry is one line of the cart: a product and a positive quantity
type CartEntry struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Promo code types
const (
	PromoTypePercentage   = "percentage"
	PromoTypeFreeShipping = "freeshipping"
)

// PromoCode is an immutable entry of the static promo table
type PromoCode struct {
	Code        string  `json:"code"`
	Type        string  `json:"type"`
	Discount    float64 `json:"discount"`
	Description string  `json:"description"`
}

// ShippingInfo is the checkout form data; all fields are required
type ShippingInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// Payment methods
const (
	PaymentMethodCash  = "cash"
	PaymentMethodVNPay = "vnpay"
)

// ProductInfo is one order line with the unit price rounded to whole
// currency units
type ProductInfo struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Price     int64  `json:"price"`
}

// OrderPayload is the normalized order sent to the order API. It is built
// fresh per submission and never mutated afterwards; UserID nil means guest
// checkout.
type OrderPayload struct {
	UserID        *string       `json:"userId"`
	PaymentMethod string        `json:"paymentMethod"`
	ProductsInfo  []ProductInfo `json:"productsInfo"`
	Shipping      ShippingInfo  `json:"shipping"`
}

// Guest order statuses
const (
	GuestOrderStatusPending = "pending"
	GuestPaymentUnpaid      = "unpaid"
)

// GuestOrder is an order persisted locally when no user is authenticated.
// Immutable once written; downstream admin tooling owns status updates.
type GuestOrder struct {
	ID            string        `json:"_id"`
	UserID        *string       `json:"userId"`
	ProductsInfo  []ProductInfo `json:"productsInfo"`
	Amount        int64         `json:"amount"`
	PaymentMethod string        `json:"paymentMethod"`
	PaymentStatus string        `json:"paymentStatus"`
	Status        string        `json:"status"`
	Shipping      ShippingInfo  `json:"shipping"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}
