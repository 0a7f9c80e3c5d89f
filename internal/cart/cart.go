// Package cart owns the shopper's product→quantity mapping. Quantities are
// always positive; a mutation that would reach zero removes the line. Every
// mutation is persisted so the cart survives a process restart.
package cart

import (
	"encoding/json"
	"sort"
	"sync"

	"checkout-service/internal/kvstore"
	"checkout-service/internal/models"
	"checkout-service/internal/util"

	"go.uber.org/zap"
)

// Store holds the current cart and persists it under kvstore.KeyCartItems
type Store struct {
	mu     sync.Mutex
	items  map[string]int
	kv     kvstore.Store
	logger *zap.Logger
}

// NewStore hydrates a cart from the key-value store. Absent or corrupt
// stored data yields an empty cart, never an error.
func NewStore(kv kvstore.Store) *Store {
	s := &Store{
		items:  make(map[string]int),
		kv:     kv,
		logger: util.GetLogger(),
	}

	raw, ok, err := kv.Get(kvstore.KeyCartItems)
	if err != nil {
		s.logger.Warn("Failed to read persisted cart, starting empty", zap.Error(err))
		return s
	}
	if !ok {
		return s
	}

	var stored map[string]int
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		s.logger.Warn("Corrupt persisted cart, resetting to empty", zap.Error(err))
		return s
	}
	for id, qty := range stored {
		if qty > 0 {
			s.items[id] = qty
		}
	}
	return s
}

// SetQuantity sets the quantity for a product. A quantity of zero or less
// removes the line. Idempotent.
func (s *Store) SetQuantity(productID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		delete(s.items, productID)
	} else {
		s.items[productID] = quantity
	}
	util.CartMutationsTotal.WithLabelValues("set").Inc()
	s.persist()
}

// Increase adds one to the product's quantity
func (s *Store) Increase(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[productID]++
	util.CartMutationsTotal.WithLabelValues("increase").Inc()
	s.persist()
}

// Decrease subtracts one from the product's quantity, removing the line at zero
func (s *Store) Decrease(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.items[productID] - 1
	if next <= 0 {
		delete(s.items, productID)
	} else {
		s.items[productID] = next
	}
	util.CartMutationsTotal.WithLabelValues("decrease").Inc()
	s.persist()
}

// Remove deletes the product's line entirely
func (s *Store) Remove(productID string) {
	s.SetQuantity(productID, 0)
}

// Clear empties the cart. Called on successful order submission.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[string]int)
	util.CartMutationsTotal.WithLabelValues("clear").Inc()
	s.persist()
}

// Quantity returns the current quantity for a product, 0 if absent
func (s *Store) Quantity(productID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[productID]
}

// Len returns the number of distinct product lines
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Snapshot returns the cart as a product-ID-sorted slice of entries. The
// slice is a copy; later mutations do not affect it.
func (s *Store) Snapshot() []models.CartEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]models.CartEntry, 0, len(s.items))
	for id, qty := range s.items {
		entries = append(entries, models.CartEntry{ProductID: id, Quantity: qty})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ProductID < entries[j].ProductID
	})
	return entries
}

// persist writes the full map; caller must hold s.mu. A failed write is
// logged and counted but does not fail the mutation, matching the
// best-effort persistence of the stored cart.
func (s *Store) persist() {
	data, err := json.Marshal(s.items)
	if err != nil {
		s.logger.Error("Failed to marshal cart", zap.Error(err))
		return
	}
	if err := s.kv.Set(kvstore.KeyCartItems, string(data)); err != nil {
		util.CartPersistFailuresTotal.Inc()
		s.logger.Error("Failed to persist cart", zap.Error(err))
	}
}
