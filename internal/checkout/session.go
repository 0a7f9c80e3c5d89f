package checkout

import (
	"sync"

	"checkout-service/internal/models"
	"checkout-service/internal/pricing"
	"checkout-service/internal/util"
)

// Session holds per-checkout state: at most one applied promo code.
// Applying a new code replaces the previous one; a failed application
// leaves the current one untouched.
type Session struct {
	mu      sync.Mutex
	applied *models.PromoCode
	promos  *pricing.PromoCatalog
}

// NewSession creates a checkout session over the promo catalog
func NewSession(promos *pricing.PromoCatalog) *Session {
	return &Session{promos: promos}
}

// ApplyPromo resolves and applies a user-entered promo code. On
// ErrEmptyPromoCode or ErrInvalidPromoCode the applied promo is unchanged.
func (s *Session) ApplyPromo(input string) (models.PromoCode, error) {
	pc, err := s.promos.Resolve(input)
	if err != nil {
		util.PromoApplicationsTotal.WithLabelValues("rejected").Inc()
		return models.PromoCode{}, err
	}

	s.mu.Lock()
	s.applied = &pc
	s.mu.Unlock()

	util.PromoApplicationsTotal.WithLabelValues("applied").Inc()
	return pc, nil
}

// ClearPromo removes the applied promo, if any
func (s *Session) ClearPromo() {
	s.mu.Lock()
	s.applied = nil
	s.mu.Unlock()
}

// AppliedPromo returns a copy of the applied promo, or nil
func (s *Session) AppliedPromo() *models.PromoCode {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.applied == nil {
		return nil
	}
	pc := *s.applied
	return &pc
}
