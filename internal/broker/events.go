package broker

import (
	"context"
	"fmt"

	"checkout-service/internal/models"
)

// CheckoutEventPublisher publishes checkout domain events for downstream
// admin tooling. Events are best-effort: the submitter logs and moves on
// when publishing fails.
type CheckoutEventPublisher struct {
	producer *Producer
}

// NewCheckoutEventPublisher creates a new event publisher
func NewCheckoutEventPublisher(producer *Producer) *CheckoutEventPublisher {
	return &CheckoutEventPublisher{producer: producer}
}

// PublishOrderSubmitted publishes an OrderSubmitted event
func (ep *CheckoutEventPublisher) PublishOrderSubmitted(ctx context.Context, event *models.OrderSubmittedEvent) error {
	key := fmt.Sprintf("order-%s", event.OrderID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishGuestOrderSaved publishes a GuestOrderSaved event
func (ep *CheckoutEventPublisher) PublishGuestOrderSaved(ctx context.Context, event *models.GuestOrderSavedEvent) error {
	key := fmt.Sprintf("order-%s", event.OrderID)
	return ep.producer.PublishEvent(ctx, key, event)
}
