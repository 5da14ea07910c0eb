// Package driving defines the interfaces through which the outside world
// drives the core (primary/inbound ports). The CLI adapter calls these;
// an HTTP routing layer would call the same interfaces.
package driving

import (
	"context"

	"github.com/custodia-labs/snapshop/internal/core/domain"
)

// Indexer coordinates full-catalog indexing runs.
type Indexer interface {
	// Trigger starts a background indexing run for an application.
	// It returns as soon as the catalog has been read and the run marked
	// in-progress; progress is observed only via Status. An empty catalog
	// is rejected with domain.ErrNoProductsToIndex and no run starts.
	Trigger(ctx context.Context, applicationID string) (*domain.TriggerReceipt, error)

	// Status returns the current run state for an application.
	// An application with no recorded run reports idle.
	Status(ctx context.Context, applicationID string) (*domain.IndexingRun, error)

	// RemoveIndex deletes the application's embeddings upstream.
	RemoveIndex(ctx context.Context, applicationID string) error

	// CheckHealth probes the embedding service.
	CheckHealth(ctx context.Context) domain.ServiceHealth
}
