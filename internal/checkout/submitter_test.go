package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"checkout-service/internal/cart"
	"checkout-service/internal/kvstore"
	"checkout-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubOrderAPI struct {
	result  *CreateOrderResult
	err     error
	calls   int
	started chan struct{}
	release chan struct{}
}

func (s *stubOrderAPI) CreateOrder(ctx context.Context, payload *models.OrderPayload) (*CreateOrderResult, error) {
	s.calls++
	if s.started != nil {
		close(s.started)
	}
	if s.release != nil {
		<-s.release
	}
	return s.result, s.err
}

func filledCart(kv kvstore.Store) *cart.Store {
	c := cart.NewStore(kv)
	c.SetQuantity("p1", 2)
	c.SetQuantity("p2", 1)
	return c
}

func guestPayload() *models.OrderPayload {
	return &models.OrderPayload{
		UserID:        nil,
		PaymentMethod: models.PaymentMethodCash,
		ProductsInfo: []models.ProductInfo{
			{ProductID: "p1", Quantity: 2, Price: 100},
			{ProductID: "p2", Quantity: 1, Price: 50},
		},
		Shipping: fullShipping,
	}
}

func userPayload() *models.OrderPayload {
	p := guestPayload()
	userID := "u-1"
	p.UserID = &userID
	return p
}

func TestGuestSubmissionSavesOrderAndClearsCart(t *testing.T) {
	kv := kvstore.NewMemory()
	c := filledCart(kv)
	s := NewSubmitter(c, kv, &stubOrderAPI{}, nil)

	conf, err := s.Submit(context.Background(), guestPayload())
	require.NoError(t, err)

	assert.True(t, conf.Guest)
	assert.True(t, strings.HasPrefix(conf.OrderID, "guest_"))
	assert.Equal(t, 0, c.Len(), "successful submission clears the cart")
	assert.Equal(t, StateSucceeded, s.State())

	orders := s.GuestOrders()
	require.Len(t, orders, 1)
	order := orders[0]
	assert.Equal(t, conf.OrderID, order.ID)
	assert.Nil(t, order.UserID)
	// amount is the undiscounted sum of rounded unit prices; guest orders
	// never carry promo or shipping adjustments
	assert.Equal(t, int64(250), order.Amount)
	assert.Equal(t, models.GuestPaymentUnpaid, order.PaymentStatus)
	assert.Equal(t, models.GuestOrderStatusPending, order.Status)
	assert.Equal(t, fullShipping, order.Shipping)
	assert.WithinDuration(t, time.Now(), order.CreatedAt, 5*time.Second)
}

func TestGuestOrdersPrependNewestFirst(t *testing.T) {
	kv := kvstore.NewMemory()
	c := filledCart(kv)
	s := NewSubmitter(c, kv, &stubOrderAPI{}, nil)

	_, err := s.Submit(context.Background(), guestPayload())
	require.NoError(t, err)

	second := guestPayload()
	second.ProductsInfo = []models.ProductInfo{{ProductID: "p3", Quantity: 1, Price: 77}}
	_, err = s.Submit(context.Background(), second)
	require.NoError(t, err)

	orders := s.GuestOrders()
	require.Len(t, orders, 2)
	assert.Equal(t, int64(77), orders[0].Amount, "newest order comes first")
	assert.Equal(t, int64(250), orders[1].Amount)
}

func TestGuestPersistenceFailureLeavesCart(t *testing.T) {
	kv := kvstore.NewMemory()
	c := filledCart(kv)
	kv.FailWrites = true
	s := NewSubmitter(c, kv, &stubOrderAPI{}, nil)

	_, err := s.Submit(context.Background(), guestPayload())

	var persistence *LocalPersistenceError
	require.ErrorAs(t, err, &persistence)
	assert.Equal(t, 2, c.Len(), "failed submission must not clear the cart")
	assert.Equal(t, StateFailed, s.State())
}

func TestGuestCorruptQueueRefusesToClobber(t *testing.T) {
	kv := kvstore.NewMemory()
	c := filledCart(kv)
	require.NoError(t, kv.Set(kvstore.KeyGuestOrders, `not json`))
	s := NewSubmitter(c, kv, &stubOrderAPI{}, nil)

	_, err := s.Submit(context.Background(), guestPayload())

	var persistence *LocalPersistenceError
	require.ErrorAs(t, err, &persistence)
	assert.Equal(t, 2, c.Len())

	raw, ok, _ := kv.Get(kvstore.KeyGuestOrders)
	require.True(t, ok)
	assert.Equal(t, `not json`, raw, "corrupt queue left for inspection")
}

func TestRemoteSuccessClearsCart(t *testing.T) {
	kv := kvstore.NewMemory()
	c := filledCart(kv)
	api := &stubOrderAPI{result: &CreateOrderResult{Success: true, OrderID: "srv-42"}}
	s := NewSubmitter(c, kv, api, nil)

	conf, err := s.Submit(context.Background(), userPayload())
	require.NoError(t, err)

	assert.Equal(t, "srv-42", conf.OrderID)
	assert.False(t, conf.Guest)
	assert.Equal(t, 1, api.calls, "remote API called exactly once")
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, StateSucceeded, s.State())
}

func TestRemoteRejectionKeepsCart(t *testing.T) {
	kv := kvstore.NewMemory()
	c := filledCart(kv)
	api := &stubOrderAPI{result: &CreateOrderResult{Success: false, Message: "Out of stock"}}
	s := NewSubmitter(c, kv, api, nil)

	_, err := s.Submit(context.Background(), userPayload())

	var rejected *ServerRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "Out of stock", rejected.Message)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, StateFailed, s.State())
}

func TestRemoteTransportFailureKeepsCart(t *testing.T) {
	kv := kvstore.NewMemory()
	c := filledCart(kv)
	api := &stubOrderAPI{err: errors.New("connection refused")}
	s := NewSubmitter(c, kv, api, nil)

	_, err := s.Submit(context.Background(), userPayload())

	require.Error(t, err)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, StateFailed, s.State())
}

func TestSubmitOnceGuard(t *testing.T) {
	kv := kvstore.NewMemory()
	c := filledCart(kv)
	api := &stubOrderAPI{
		result:  &CreateOrderResult{Success: true, OrderID: "srv-1"},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	s := NewSubmitter(c, kv, api, nil)

	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background(), userPayload())
		done <- err
	}()

	<-api.started
	assert.Equal(t, StateSubmitting, s.State())

	// cart mutations while a submission is outstanding are allowed and only
	// affect future submissions; the in-flight payload is immutable
	c.Increase("p9")

	_, err := s.Submit(context.Background(), userPayload())
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	close(api.release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, api.calls)
}

func TestStateStartsIdle(t *testing.T) {
	s := NewSubmitter(cart.NewStore(kvstore.NewMemory()), kvstore.NewMemory(), &stubOrderAPI{}, nil)
	assert.Equal(t, StateIdle, s.State())
}

func TestGuestOrdersRoundTrip(t *testing.T) {
	kv := kvstore.NewMemory()
	c := filledCart(kv)
	s := NewSubmitter(c, kv, &stubOrderAPI{}, nil)

	conf, err := s.Submit(context.Background(), guestPayload())
	require.NoError(t, err)

	raw, ok, _ := kv.Get(kvstore.KeyGuestOrders)
	require.True(t, ok)

	var stored []models.GuestOrder
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	require.Len(t, stored, 1)
	assert.Equal(t, conf.OrderID, stored[0].ID)
}
