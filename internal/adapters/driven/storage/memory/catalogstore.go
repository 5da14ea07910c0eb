package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/snapshop/internal/core/domain"
	"github.com/custodia-labs/snapshop/internal/core/ports/driven"
)

// Ensure CatalogStore implements the interface.
var _ driven.CatalogStore = (*CatalogStore)(nil)

// CatalogStore is an in-memory catalog used for tests and local runs
// without a database file.
type CatalogStore struct {
	mu    sync.RWMutex
	items []domain.CatalogItem
}

// NewCatalogStore creates an in-memory catalog seeded with items.
func NewCatalogStore(items []domain.CatalogItem) *CatalogStore {
	return &CatalogStore{items: items}
}

// FetchAll returns a copy of every catalog item.
func (s *CatalogStore) FetchAll(_ context.Context) ([]domain.CatalogItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.CatalogItem, len(s.items))
	copy(out, s.items)
	return out, nil
}

// Replace swaps the catalog contents.
func (s *CatalogStore) Replace(items []domain.CatalogItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
}
