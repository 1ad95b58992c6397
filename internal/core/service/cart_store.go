package service

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/ecommerceapp/storefront/internal/core/domain"
)

// CartStore owns the cart line items and the derived aggregates. All
// mutations go through its methods under one mutex, so the store is the
// single writer of cart state. Aggregates are recomputed from the line list
// after every mutation, never adjusted incrementally.
type CartStore struct {
	mu      sync.Mutex
	lines   []domain.CartLine
	summary domain.CartSummary
	isOpen  bool
	log     zerolog.Logger
}

// CartView is a consistent read snapshot of the store.
type CartView struct {
	Lines   []domain.CartLine
	Summary domain.CartSummary
	IsOpen  bool
}

func NewCartStore(log zerolog.Logger) *CartStore {
	return &CartStore{log: log}
}

// AddItem adds one unit of the product: an existing line is incremented,
// otherwise a new line is created at quantity 1 with the product's current
// price captured as the unit price.
func (s *CartStore) AddItem(p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.lineIndex(p.ID); i >= 0 {
		s.lines[i].Quantity++
	} else {
		s.lines = append(s.lines, domain.CartLine{
			ProductID: p.ID,
			Name:      p.Name,
			UnitPrice: p.Price,
			Quantity:  1,
			Image:     p.Image,
		})
	}
	s.recompute()
	s.log.Debug().Str("product_id", p.ID).Int("item_count", s.summary.ItemCount).Msg("cart item added")
}

// RemoveItem removes one unit of the product. The last unit deletes the
// line entirely; a missing line is a no-op.
func (s *CartStore) RemoveItem(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.lineIndex(productID)
	if i < 0 {
		return
	}
	if s.lines[i].Quantity > 1 {
		s.lines[i].Quantity--
	} else {
		s.lines = append(s.lines[:i], s.lines[i+1:]...)
	}
	s.recompute()
}

// UpdateQuantity sets the line quantity exactly. Zero or negative input is
// treated as deletion, mirroring the remove-last-unit rule.
func (s *CartStore) UpdateQuantity(productID string, quantity int) {
	if quantity < 1 {
		s.DeleteItem(productID)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.lineIndex(productID)
	if i < 0 {
		return
	}
	s.lines[i].Quantity = quantity
	s.recompute()
}

// DeleteItem unconditionally removes the line if present.
func (s *CartStore) DeleteItem(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.lineIndex(productID)
	if i < 0 {
		return
	}
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	s.recompute()
}

// Clear empties the cart.
func (s *CartStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil
	s.recompute()
	s.log.Debug().Msg("cart cleared")
}

// ToggleOpen flips the cart drawer visibility flag.
func (s *CartStore) ToggleOpen() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isOpen = !s.isOpen
}

func (s *CartStore) Open() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isOpen = true
}

func (s *CartStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isOpen = false
}

// Snapshot returns a copy of the current lines, the recomputed summary, and
// the visibility flag. Callers cannot mutate store state through it.
func (s *CartStore) Snapshot() CartView {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := make([]domain.CartLine, len(s.lines))
	copy(lines, s.lines)
	return CartView{Lines: lines, Summary: s.summary, IsOpen: s.isOpen}
}

// Summary returns the current derived aggregates.
func (s *CartStore) Summary() domain.CartSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary
}

// lineIndex returns the index of the line for productID, or -1.
// Callers must hold s.mu.
func (s *CartStore) lineIndex(productID string) int {
	for i, l := range s.lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

// recompute rebuilds the aggregates from the line list. Callers must hold s.mu.
func (s *CartStore) recompute() {
	s.summary = domain.Summarize(s.lines)
}
