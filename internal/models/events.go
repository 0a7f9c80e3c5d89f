package models

import "time"

// Event types
const (
	EventTypeOrderSubmitted  = "ORDER_SUBMITTED"
	EventTypeGuestOrderSaved = "GUEST_ORDER_SAVED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderSubmittedEvent published after the remote API accepts an order
type OrderSubmittedEvent struct {
	BaseEvent
	OrderID string        `json:"order_id"`
	UserID  string        `json:"user_id"`
	Items   []ProductInfo `json:"items"`
}

// GuestOrderSavedEvent published after a guest order lands in the local queue
type GuestOrderSavedEvent struct {
	BaseEvent
	OrderID string `json:"order_id"`
	Amount  int64  `json:"amount"`
}
