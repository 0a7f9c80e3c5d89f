// Package kvstore abstracts the durable key-value store used for cart
// persistence, the guest-order queue and the stored user identity.
package kvstore

import "errors"

// ErrWriteFailed reports a failed store write (quota, connectivity)
var ErrWriteFailed = errors.New("kvstore: write failed")

// Well-known keys
const (
	KeyCartItems   = "cartItems"
	KeyGuestOrders = "guestOrders"
	KeyUserInfo    = "userInfo"
)

// Store is a minimal string key-value capability. Get returns ok=false for
// an absent key; a missing key is not an error.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
}
