package checkout

import (
	"checkout-service/internal/models"
	"checkout-service/internal/pricing"
)

// Builder assembles normalized order payloads from the cart and catalog
type Builder struct {
	lookup pricing.Lookup
}

// NewBuilder creates an order builder over a product lookup
func NewBuilder(lookup pricing.Lookup) *Builder {
	return &Builder{lookup: lookup}
}

// Build turns a cart snapshot plus shipping form data into an OrderPayload.
// The emptiness check comes first, before shipping validation. Unit prices
// are rounded to whole currency units; entry order follows the snapshot.
// The catalog must be fully loaded before calling Build, otherwise an
// UnknownProductError is returned for the first unresolved entry.
func (b *Builder) Build(snapshot []models.CartEntry, shipping models.ShippingInfo, userID *string, paymentMethod string) (*models.OrderPayload, error) {
	if len(snapshot) == 0 {
		return nil, ErrEmptyCart
	}

	if shipping.Name == "" || shipping.Address == "" || shipping.Phone == "" || shipping.Email == "" {
		return nil, ErrIncompleteShipping
	}

	switch paymentMethod {
	case "":
		paymentMethod = models.PaymentMethodCash
	case models.PaymentMethodCash, models.PaymentMethodVNPay:
	default:
		return nil, ErrInvalidPaymentMethod
	}

	productsInfo := make([]models.ProductInfo, 0, len(snapshot))
	for _, entry := range snapshot {
		product, ok := b.lookup.Get(entry.ProductID)
		if !ok {
			return nil, &UnknownProductError{ProductID: entry.ProductID}
		}
		productsInfo = append(productsInfo, models.ProductInfo{
			ProductID: entry.ProductID,
			Quantity:  entry.Quantity,
			Price:     pricing.RoundPrice(product.Price),
		})
	}

	return &models.OrderPayload{
		UserID:        userID,
		PaymentMethod: paymentMethod,
		ProductsInfo:  productsInfo,
		Shipping:      shipping,
	}, nil
}
