package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"tableside/internal/logger"
	"tableside/internal/models"
	"tableside/internal/storage"
)

// ErrQuantityTooSmall is returned when a mutation would take an item's
// quantity below one.
var ErrQuantityTooSmall = errors.New("quantity must be at least 1")

// Manager owns the working cart: an ordered list of items unique by ID
// plus the derived total. Every mutation rewrites the persisted cart.
type Manager struct {
	store  storage.Store
	logger *logger.Logger

	mu    sync.Mutex
	items []models.CartItem
	total decimal.Decimal
}

// NewManager creates a manager and loads the persisted cart. Missing or
// malformed persisted data is treated as an empty cart.
func NewManager(ctx context.Context, store storage.Store, log *logger.Logger) (*Manager, error) {
	m := &Manager{
		store:  store,
		logger: log,
		total:  decimal.Zero,
	}

	data, ok, err := store.Get(ctx, storage.KeyCart)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if ok {
		var items []models.CartItem
		if err := json.Unmarshal(data, &items); err != nil {
			log.Error("cart_load_failed", "Persisted cart is malformed, starting empty", "startup", err, nil)
		} else {
			m.items = items
		}
	}

	m.recomputeTotal()
	return m, nil
}

// Items returns a copy of the cart in insertion order
func (m *Manager) Items() []models.CartItem {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.CartItem, len(m.items))
	copy(out, m.items)
	return out
}

// TotalAmount returns the derived cart total
func (m *Manager) TotalAmount() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.total
}

// Len returns the number of distinct items in the cart
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// AddToCart merges the item into the cart: an existing item with the same
// ID gains the incoming quantity, a new item is appended.
func (m *Manager) AddToCart(ctx context.Context, item models.CartItem) error {
	if err := item.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	merged := false
	for i := range m.items {
		if m.items[i].ID == item.ID {
			m.items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		m.items = append(m.items, item)
	}

	return m.commit(ctx)
}

// RemoveFromCart removes the matching item. Removing an absent ID is a
// no-op, not an error.
func (m *Manager) RemoveFromCart(ctx context.Context, itemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.items[:0]
	removed := false
	for _, item := range m.items {
		if item.ID == itemID {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	if !removed {
		return nil
	}

	m.items = kept
	return m.commit(ctx)
}

// UpdateQuantity replaces the stored quantity for the matching ID. An
// absent ID is a no-op; a quantity below one is rejected.
func (m *Manager) UpdateQuantity(ctx context.Context, itemID string, quantity int) error {
	if quantity < 1 {
		return ErrQuantityTooSmall
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.items {
		if m.items[i].ID == itemID {
			m.items[i].Quantity = quantity
			return m.commit(ctx)
		}
	}
	return nil
}

// ClearCart empties the cart and removes the persisted entry entirely
func (m *Manager) ClearCart(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items = nil
	m.recomputeTotal()

	if err := m.store.Delete(ctx, storage.KeyCart); err != nil {
		return fmt.Errorf("failed to clear persisted cart: %w", err)
	}
	return nil
}

// commit recomputes the total and rewrites the whole persisted cart.
// Callers hold the lock.
func (m *Manager) commit(ctx context.Context) error {
	m.recomputeTotal()

	items := m.items
	if items == nil {
		items = []models.CartItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	if err := m.store.Set(ctx, storage.KeyCart, data); err != nil {
		return fmt.Errorf("failed to persist cart: %w", err)
	}
	return nil
}

func (m *Manager) recomputeTotal() {
	m.total = models.CartTotal(m.items)
}
