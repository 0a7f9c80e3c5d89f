package pricing

import (
	"errors"
	"strings"

	"checkout-service/internal/models"
)

// Promo resolution errors
var (
	ErrEmptyPromoCode   = errors.New("promo code is empty")
	ErrInvalidPromoCode = errors.New("invalid promo code")
)

// PromoCatalog is the static promo table, loaded once at startup
type PromoCatalog struct {
	byCode map[string]models.PromoCode
	codes  []models.PromoCode
}

// DefaultPromoCodes is the promo table shipped with the application
var DefaultPromoCodes = []models.PromoCode{
	{Code: "SALE10", Type: models.PromoTypePercentage, Discount: 10, Description: "10% off your order"},
	{Code: "SALE20", Type: models.PromoTypePercentage, Discount: 20, Description: "20% off your order"},
	{Code: "FREESHIP", Type: models.PromoTypeFreeShipping, Description: "Free shipping"},
}

// NewPromoCatalog indexes promo codes case-insensitively
func NewPromoCatalog(codes []models.PromoCode) *PromoCatalog {
	byCode := make(map[string]models.PromoCode, len(codes))
	for _, pc := range codes {
		byCode[strings.ToUpper(pc.Code)] = pc
	}
	return &PromoCatalog{byCode: byCode, codes: codes}
}

// Resolve looks up a user-entered code: surrounding whitespace is trimmed
// and matching is case-insensitive. Empty input yields ErrEmptyPromoCode,
// no match yields ErrInvalidPromoCode.
func (c *PromoCatalog) Resolve(input string) (models.PromoCode, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return models.PromoCode{}, ErrEmptyPromoCode
	}
	pc, ok := c.byCode[strings.ToUpper(trimmed)]
	if !ok {
		return models.PromoCode{}, ErrInvalidPromoCode
	}
	return pc, nil
}

// List returns the full promo table in declaration order
func (c *PromoCatalog) List() []models.PromoCode {
	out := make([]models.PromoCode, len(c.codes))
	copy(out, c.codes)
	return out
}
