package driven

import (
	"context"

	"github.com/custodia-labs/snapshop/internal/core/domain"
)

// CatalogStore reads the product catalog from the external document store.
// The store is read-only from the core; it is queried in full both for
// indexing runs and for enriching search matches.
type CatalogStore interface {
	// FetchAll returns every catalog item, normalized. All-or-nothing:
	// on a timeout or connection error it returns domain.ErrStoreUnavailable
	// and no partial result.
	FetchAll(ctx context.Context) ([]domain.CatalogItem, error)
}
