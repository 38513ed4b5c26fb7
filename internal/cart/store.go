package cart

import (
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/freshmart/checkoutapi/internal/domain"
)

// Snapshot is a read-only view of one session's cart, taken at a single
// point in time. The checkout workflow never mutates it.
type Snapshot struct {
	Items     []domain.CartItem
	CartTotal decimal.Decimal
	IsEmpty   bool
}

// Store holds the server-side cart mirror for each storefront session.
// All mutation goes through the store's lock, so each cart has
// single-writer semantics per update.
type Store struct {
	mu     sync.RWMutex
	carts  map[uuid.UUID][]domain.CartItem
	logger *zap.Logger
}

// NewStore creates an empty cart store.
func NewStore(logger *zap.Logger) *Store {
	return &Store{
		carts:  make(map[uuid.UUID][]domain.CartItem),
		logger: logger,
	}
}

// SetItem adds the item to the session's cart, or replaces the line with
// the same ID. The line total is recomputed from price and quantity.
func (s *Store) SetItem(sessionID uuid.UUID, item domain.CartItem) {
	item.ItemTotal = item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[sessionID]
	for i := range items {
		if items[i].ID == item.ID {
			items[i] = item
			return
		}
	}
	s.carts[sessionID] = append(items, item)
}

// RemoveItem deletes a line from the session's cart.
func (s *Store) RemoveItem(sessionID uuid.UUID, itemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[sessionID]
	for i := range items {
		if items[i].ID == itemID {
			s.carts[sessionID] = append(items[:i], items[i+1:]...)
			return
		}
	}
}

// Snapshot returns a copy of the session's cart along with its total.
func (s *Store) Snapshot(sessionID uuid.UUID) Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := s.carts[sessionID]
	copied := make([]domain.CartItem, len(items))
	copy(copied, items)

	total := decimal.Zero
	for _, item := range copied {
		total = total.Add(item.ItemTotal)
	}

	return Snapshot{
		Items:     copied,
		CartTotal: total,
		IsEmpty:   len(copied) == 0,
	}
}

// EmptyCart removes every line from the session's cart.
func (s *Store) EmptyCart(sessionID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, sessionID)
	s.logger.Debug("Cart emptied", zap.String("session_id", sessionID.String()))
}
