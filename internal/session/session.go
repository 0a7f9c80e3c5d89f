// Package session resolves the current user identity from the stored
// userInfo record. A missing or unparseable record means guest checkout;
// that fallback is intended behavior, not an error path.
package session

import (
	"encoding/json"
	"fmt"

	"checkout-service/internal/kvstore"
	"checkout-service/internal/util"

	"go.uber.org/zap"
)

// ParseError reports a userInfo record that is present but not valid JSON
// or carries no usable identifier.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("userInfo parse failed: %s", e.Reason)
}

type userInfo struct {
	MongoID string `json:"_id"`
	ID      string `json:"id"`
	UserID  string `json:"userId"`
}

// ParseUserInfo strictly parses a stored userInfo value and extracts the
// user ID, trying _id, then id, then userId.
func ParseUserInfo(raw string) (string, error) {
	var info userInfo
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		return "", &ParseError{Reason: err.Error()}
	}

	switch {
	case info.MongoID != "":
		return info.MongoID, nil
	case info.ID != "":
		return info.ID, nil
	case info.UserID != "":
		return info.UserID, nil
	}
	return "", &ParseError{Reason: "no user identifier present"}
}

// Resolver reads the identity from the key-value store (read-only)
type Resolver struct {
	kv     kvstore.Store
	logger *zap.Logger
}

// NewResolver creates a session resolver
func NewResolver(kv kvstore.Store) *Resolver {
	return &Resolver{kv: kv, logger: util.GetLogger()}
}

// CurrentUserID returns the authenticated user's ID, or nil for guest.
// Absent, empty or unparseable stored identity all resolve to guest.
func (r *Resolver) CurrentUserID() *string {
	raw, ok, err := r.kv.Get(kvstore.KeyUserInfo)
	if err != nil {
		r.logger.Warn("Failed to read stored user identity, treating as guest", zap.Error(err))
		return nil
	}
	if !ok || raw == "" {
		return nil
	}

	id, err := ParseUserInfo(raw)
	if err != nil {
		r.logger.Warn("Could not parse stored user identity, treating as guest", zap.Error(err))
		return nil
	}
	return &id
}
