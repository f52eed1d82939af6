package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/alidoner/orderbot/internal/models"
)

// MemoryStore keeps the order ledger in memory (tests and local runs)
type MemoryStore struct {
	mu      sync.RWMutex
	orders  map[string]*models.Order
	counter uint
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory ledger
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		orders: make(map[string]*models.Order),
		now:    time.Now,
	}
}

// SaveOrder inserts or replaces the order with the same OrderID
func (m *MemoryStore) SaveOrder(_ context.Context, order *models.Order) error {
	if order.OrderID == "" {
		return fmt.Errorf("order id is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	stored := *order
	stored.Lines = append([]models.CartLine(nil), order.Lines...)

	if existing, ok := m.orders[order.OrderID]; ok {
		stored.ID = existing.ID
		stored.CreatedAt = existing.CreatedAt
	} else {
		m.counter++
		stored.ID = m.counter
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now

	m.orders[order.OrderID] = &stored
	order.ID = stored.ID
	order.CreatedAt = stored.CreatedAt
	order.UpdatedAt = stored.UpdatedAt
	return nil
}

// GetOrder returns a copy of the order
func (m *MemoryStore) GetOrder(_ context.Context, orderID string) (*models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	order, ok := m.orders[orderID]
	if !ok {
		return nil, ErrOrderNotFound
	}
	c := *order
	return &c, nil
}

// ListOrders returns the newest orders first
func (m *MemoryStore) ListOrders(_ context.Context, limit int) ([]*models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	orders := make([]*models.Order, 0, len(m.orders))
	for _, order := range m.orders {
		c := *order
		orders = append(orders, &c)
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].ID > orders[j].ID
	})

	if limit = normalizeLimit(limit); len(orders) > limit {
		orders = orders[:limit]
	}
	return orders, nil
}
