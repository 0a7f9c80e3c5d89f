package checkout

import (
	"testing"

	"checkout-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapLookup map[string]models.Product

func (m mapLookup) Get(id string) (models.Product, bool) {
	p, ok := m[id]
	return p, ok
}

var fullShipping = models.ShippingInfo{
	Name:    "Nguyen Van A",
	Address: "1 Le Loi, HCMC",
	Phone:   "0900000000",
	Email:   "a@example.com",
}

func builderLookup() mapLookup {
	return mapLookup{
		"p1": {ID: "p1", Price: 100},
		"p2": {ID: "p2", Price: 49.5},
	}
}

func TestBuildEmptyCart(t *testing.T) {
	b := NewBuilder(builderLookup())

	// empty cart wins over shipping completeness, both ways
	_, err := b.Build(nil, fullShipping, nil, "")
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = b.Build([]models.CartEntry{}, models.ShippingInfo{}, nil, "")
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestBuildIncompleteShipping(t *testing.T) {
	b := NewBuilder(builderLookup())
	snapshot := []models.CartEntry{{ProductID: "p1", Quantity: 1}}

	incomplete := []models.ShippingInfo{
		{Address: "x", Phone: "x", Email: "x"},
		{Name: "x", Phone: "x", Email: "x"},
		{Name: "x", Address: "x", Email: "x"},
		{Name: "x", Address: "x", Phone: "x"},
		{},
	}
	for i, shipping := range incomplete {
		_, err := b.Build(snapshot, shipping, nil, "")
		assert.ErrorIs(t, err, ErrIncompleteShipping, "case %d", i)
	}
}

func TestBuildUnknownProduct(t *testing.T) {
	b := NewBuilder(builderLookup())
	snapshot := []models.CartEntry{
		{ProductID: "p1", Quantity: 1},
		{ProductID: "ghost", Quantity: 2},
	}

	_, err := b.Build(snapshot, fullShipping, nil, "")

	var unknown *UnknownProductError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "ghost", unknown.ProductID)
}

func TestBuildPayload(t *testing.T) {
	b := NewBuilder(builderLookup())
	snapshot := []models.CartEntry{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 1},
	}
	userID := "u-1"

	payload, err := b.Build(snapshot, fullShipping, &userID, models.PaymentMethodVNPay)
	require.NoError(t, err)

	require.Len(t, payload.ProductsInfo, 2)
	// entry order follows the snapshot
	assert.Equal(t, "p1", payload.ProductsInfo[0].ProductID)
	assert.Equal(t, 2, payload.ProductsInfo[0].Quantity)
	assert.Equal(t, int64(100), payload.ProductsInfo[0].Price)
	// 49.5 rounds up to 50
	assert.Equal(t, "p2", payload.ProductsInfo[1].ProductID)
	assert.Equal(t, int64(50), payload.ProductsInfo[1].Price)

	require.NotNil(t, payload.UserID)
	assert.Equal(t, "u-1", *payload.UserID)
	assert.Equal(t, models.PaymentMethodVNPay, payload.PaymentMethod)
	assert.Equal(t, fullShipping, payload.Shipping)
}

func TestBuildPaymentMethodDefaultsToCash(t *testing.T) {
	b := NewBuilder(builderLookup())
	snapshot := []models.CartEntry{{ProductID: "p1", Quantity: 1}}

	payload, err := b.Build(snapshot, fullShipping, nil, "")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentMethodCash, payload.PaymentMethod)

	_, err = b.Build(snapshot, fullShipping, nil, "bitcoin")
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
}

func TestBuildGuestPayload(t *testing.T) {
	b := NewBuilder(builderLookup())
	snapshot := []models.CartEntry{{ProductID: "p1", Quantity: 1}}

	payload, err := b.Build(snapshot, fullShipping, nil, "")
	require.NoError(t, err)
	assert.Nil(t, payload.UserID)
}
