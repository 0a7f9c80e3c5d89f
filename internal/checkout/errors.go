package checkout

import (
	"errors"
	"fmt"
)

// Validation errors surfaced directly to the user; none of them mutate state
var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrIncompleteShipping   = errors.New("shipping info is incomplete")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrSubmissionInFlight   = errors.New("a submission is already in flight")
)

// UnknownProductError reports a cart entry whose product is not in the
// catalog lookup; the caller should retry once the catalog has loaded.
type UnknownProductError struct {
	ProductID string
}

func (e *UnknownProductError) Error() string {
	return fmt.Sprintf("unknown product in cart: %s", e.ProductID)
}

// ServerRejectedError carries the order API's business rejection verbatim
type ServerRejectedError struct {
	Message string
}

func (e *ServerRejectedError) Error() string {
	return fmt.Sprintf("order rejected by server: %s", e.Message)
}

// LocalPersistenceError reports a failed guest-order write; the only
// failure mode of the guest path.
type LocalPersistenceError struct {
	Err error
}

func (e *LocalPersistenceError) Error() string {
	return fmt.Sprintf("failed to save guest order locally: %v", e.Err)
}

func (e *LocalPersistenceError) Unwrap() error {
	return e.Err
}
