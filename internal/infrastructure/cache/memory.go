package cache

import (
	"context"
	"sync"
	"time"

	"github.com/ecommerceapp/storefront/internal/core/domain"
	"github.com/ecommerceapp/storefront/internal/core/ports"
)

// Memory is the default in-process catalog cache. It records when each entry
// was stored and leaves the staleness decision to the catalog service, so
// stale entries stay readable for stale-while-revalidate serving.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	products []domain.Product
	storedAt time.Time
}

var _ ports.CatalogCache = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]memoryEntry)}
}

func (m *Memory) Get(_ context.Context, key string) ([]domain.Product, bool, time.Time) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false, time.Time{}
	}
	products := make([]domain.Product, len(e.products))
	copy(products, e.products)
	return products, true, e.storedAt
}

func (m *Memory) Set(_ context.Context, key string, products []domain.Product) error {
	stored := make([]domain.Product, len(products))
	copy(stored, products)

	m.mu.Lock()
	m.entries[key] = memoryEntry{products: stored, storedAt: time.Now()}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}
