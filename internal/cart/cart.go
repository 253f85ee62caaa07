package cart

import (
	"sync"

	"server/internal/domain"
)

// Store keeps one shopping cart per session, entirely in memory. Mutations
// are last-writer-wins; the mutex only guards against concurrent handlers
// touching the same map.
type Store struct {
	mu    sync.Mutex
	carts map[string][]domain.CartItem
}

// NewStore builds an empty cart store.
func NewStore() *Store {
	return &Store{carts: make(map[string][]domain.CartItem)}
}

// Add puts a product into the session's cart. Adding a product that is
// already present increments its quantity instead of duplicating the line.
func (s *Store) Add(sessionID string, product domain.Product) []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.carts[sessionID]
	for i := range items {
		if items[i].ID == product.ID {
			items[i].Quantity++
			return cloneItems(items)
		}
	}
	items = append(items, domain.CartItem{Product: product, Quantity: 1})
	s.carts[sessionID] = items
	return cloneItems(items)
}

// Remove deletes the product's line item from the session's cart. Removing
// an absent product is a no-op.
func (s *Store) Remove(sessionID string, productID int) []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.carts[sessionID]
	kept := items[:0]
	for _, item := range items {
		if item.ID != productID {
			kept = append(kept, item)
		}
	}
	s.carts[sessionID] = kept
	return cloneItems(kept)
}

// UpdateQuantity sets the line quantity for a product. A quantity of zero or
// less removes the line entirely.
func (s *Store) UpdateQuantity(sessionID string, productID, quantity int) []domain.CartItem {
	if quantity <= 0 {
		return s.Remove(sessionID, productID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.carts[sessionID]
	for i := range items {
		if items[i].ID == productID {
			items[i].Quantity = quantity
			break
		}
	}
	return cloneItems(items)
}

// Items returns a copy of the session's cart.
func (s *Store) Items(sessionID string) []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.carts[sessionID])
}

// Subtotal sums price times quantity across the session's cart.
func (s *Store) Subtotal(sessionID string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, item := range s.carts[sessionID] {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// ItemCount sums the quantities across the session's cart.
func (s *Store) ItemCount(sessionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int
	for _, item := range s.carts[sessionID] {
		count += item.Quantity
	}
	return count
}

// Checkout empties the session's cart and returns the purchased items and
// subtotal. An empty cart cannot be checked out.
func (s *Store) Checkout(sessionID string) ([]domain.CartItem, float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.carts[sessionID]
	if len(items) == 0 {
		return nil, 0, domain.ErrEmptyCart
	}
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	delete(s.carts, sessionID)
	return items, total, nil
}

// Clear discards the session's cart.
func (s *Store) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
}

func cloneItems(items []domain.CartItem) []domain.CartItem {
	out := make([]domain.CartItem, len(items))
	copy(out, items)
	return out
}
