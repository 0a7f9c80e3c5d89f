package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"checkout-service/internal/broker"
	"checkout-service/internal/cart"
	"checkout-service/internal/kvstore"
	"checkout-service/internal/models"
	"checkout-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Submission states
const (
	StateIdle       = "IDLE"
	StateSubmitting = "SUBMITTING"
	StateSucceeded  = "SUCCEEDED"
	StateFailed     = "FAILED"
)

// CreateOrderResult is the remote order API's response: either an accepted
// order with its server-assigned ID, or a business rejection message.
type CreateOrderResult struct {
	Success bool
	OrderID string
	Message string
}

// OrderAPI is the opaque remote order-submission boundary. A returned error
// means transport failure; a business rejection comes back as Success=false.
type OrderAPI interface {
	CreateOrder(ctx context.Context, payload *models.OrderPayload) (*CreateOrderResult, error)
}

// Confirmation reports a successful submission
type Confirmation struct {
	OrderID string `json:"orderId"`
	Guest   bool   `json:"guest"`
}

// Submitter routes built payloads to the remote API or the local
// guest-order queue. One submission may be in flight at a time; the cart is
// cleared if and only if the submission succeeds.
type Submitter struct {
	mu       sync.Mutex
	state    string
	inFlight bool

	cart   *cart.Store
	kv     kvstore.Store
	api    OrderAPI
	events *broker.CheckoutEventPublisher
	logger *zap.Logger
}

// NewSubmitter creates an order submitter. events may be nil when no broker
// is configured.
func NewSubmitter(cartStore *cart.Store, kv kvstore.Store, api OrderAPI, events *broker.CheckoutEventPublisher) *Submitter {
	return &Submitter{
		state:  StateIdle,
		cart:   cartStore,
		kv:     kv,
		api:    api,
		events: events,
		logger: util.GetLogger(),
	}
}

// State returns the state of the most recent submission attempt
func (s *Submitter) State() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Submit executes one submission attempt. A second call while one is in
// flight fails fast with ErrSubmissionInFlight. There is no automatic
// retry: after a failure the caller rebuilds the payload and submits again.
func (s *Submitter) Submit(ctx context.Context, payload *models.OrderPayload) (*Confirmation, error) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}
	s.inFlight = true
	s.state = StateSubmitting
	s.mu.Unlock()

	start := time.Now()
	conf, err := s.submit(ctx, payload)
	util.OrderSubmitLatency.Observe(time.Since(start).Seconds())

	s.mu.Lock()
	s.inFlight = false
	if err != nil {
		s.state = StateFailed
	} else {
		s.state = StateSucceeded
	}
	s.mu.Unlock()

	return conf, err
}

func (s *Submitter) submit(ctx context.Context, payload *models.OrderPayload) (*Confirmation, error) {
	ctx, span := util.StartSpan(ctx, "Submitter.Submit")
	defer span.End()

	if payload.UserID == nil {
		return s.submitGuest(payload)
	}
	return s.submitRemote(ctx, payload)
}

// submitGuest persists the order to the local guest queue. It never touches
// the network; its only failure mode is the store write itself, which
// leaves the cart untouched.
func (s *Submitter) submitGuest(payload *models.OrderPayload) (*Confirmation, error) {
	order := newGuestOrder(payload)

	var queue []models.GuestOrder
	raw, ok, err := s.kv.Get(kvstore.KeyGuestOrders)
	if err != nil {
		util.OrdersSubmittedTotal.WithLabelValues("guest", "failed").Inc()
		return nil, &LocalPersistenceError{Err: err}
	}
	if ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &queue); err != nil {
			util.OrdersSubmittedTotal.WithLabelValues("guest", "failed").Inc()
			return nil, &LocalPersistenceError{Err: err}
		}
	}

	queue = append([]models.GuestOrder{order}, queue...)

	data, err := json.Marshal(queue)
	if err != nil {
		util.OrdersSubmittedTotal.WithLabelValues("guest", "failed").Inc()
		return nil, &LocalPersistenceError{Err: err}
	}
	if err := s.kv.Set(kvstore.KeyGuestOrders, string(data)); err != nil {
		util.OrdersSubmittedTotal.WithLabelValues("guest", "failed").Inc()
		return nil, &LocalPersistenceError{Err: err}
	}

	s.cart.Clear()
	util.OrdersSubmittedTotal.WithLabelValues("guest", "succeeded").Inc()
	util.GuestOrdersSavedTotal.Inc()
	s.logger.Info("Guest order saved locally",
		zap.String("order_id", order.ID),
		zap.Int64("amount", order.Amount))

	s.publishGuestOrderSaved(order)

	return &Confirmation{OrderID: order.ID, Guest: true}, nil
}

// submitRemote calls the order API exactly once. The post-success cleanup
// is not bound to the caller's context: a caller that has navigated away
// still gets the authoritative cart clear.
func (s *Submitter) submitRemote(ctx context.Context, payload *models.OrderPayload) (*Confirmation, error) {
	start := time.Now()
	res, err := s.api.CreateOrder(ctx, payload)
	util.OrderAPILatency.Observe(time.Since(start).Seconds())

	if err != nil {
		util.OrdersSubmittedTotal.WithLabelValues("remote", "transport_error").Inc()
		s.logger.Error("Order API call failed", zap.Error(err))
		return nil, err
	}

	if !res.Success {
		util.OrdersSubmittedTotal.WithLabelValues("remote", "rejected").Inc()
		s.logger.Warn("Order rejected by server", zap.String("message", res.Message))
		return nil, &ServerRejectedError{Message: res.Message}
	}

	s.cart.Clear()
	util.OrdersSubmittedTotal.WithLabelValues("remote", "succeeded").Inc()
	s.logger.Info("Order submitted",
		zap.String("order_id", res.OrderID),
		zap.String("user_id", *payload.UserID))

	s.publishOrderSubmitted(res.OrderID, payload)

	return &Confirmation{OrderID: res.OrderID}, nil
}

func (s *Submitter) publishOrderSubmitted(orderID string, payload *models.OrderPayload) {
	if s.events == nil {
		return
	}
	event := &models.OrderSubmittedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderSubmitted,
			Timestamp: time.Now(),
		},
		OrderID: orderID,
		UserID:  *payload.UserID,
		Items:   payload.ProductsInfo,
	}
	if err := s.events.PublishOrderSubmitted(context.Background(), event); err != nil {
		s.logger.Error("Failed to publish OrderSubmitted event", zap.Error(err))
	}
}

func (s *Submitter) publishGuestOrderSaved(order models.GuestOrder) {
	if s.events == nil {
		return
	}
	event := &models.GuestOrderSavedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeGuestOrderSaved,
			Timestamp: time.Now(),
		},
		OrderID: order.ID,
		Amount:  order.Amount,
	}
	if err := s.events.PublishGuestOrderSaved(context.Background(), event); err != nil {
		s.logger.Error("Failed to publish GuestOrderSaved event", zap.Error(err))
	}
}

// newGuestOrder builds the locally persisted order. The amount is the plain
// sum of rounded unit prices times quantities: guest orders do not carry
// promo discounts or shipping adjustments.
func newGuestOrder(payload *models.OrderPayload) models.GuestOrder {
	var amount int64
	for _, p := range payload.ProductsInfo {
		amount += p.Price * int64(p.Quantity)
	}

	now := time.Now()
	return models.GuestOrder{
		ID:            fmt.Sprintf("guest_%d", now.UnixMilli()),
		UserID:        nil,
		ProductsInfo:  payload.ProductsInfo,
		Amount:        amount,
		PaymentMethod: payload.PaymentMethod,
		PaymentStatus: models.GuestPaymentUnpaid,
		Status:        models.GuestOrderStatusPending,
		Shipping:      payload.Shipping,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// GuestOrders returns the locally persisted guest-order queue, newest
// first. A corrupt queue reads as empty here; writes still refuse to
// clobber it (see submitGuest).
func (s *Submitter) GuestOrders() []models.GuestOrder {
	raw, ok, err := s.kv.Get(kvstore.KeyGuestOrders)
	if err != nil || !ok || raw == "" {
		return nil
	}
	var queue []models.GuestOrder
	if err := json.Unmarshal([]byte(raw), &queue); err != nil {
		s.logger.Warn("Corrupt guest-order queue", zap.Error(err))
		return nil
	}
	return queue
}
