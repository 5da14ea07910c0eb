// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import (
	"context"

	"github.com/custodia-labs/snapshop/internal/core/domain"
)

// EmbeddingService is the typed client for the external AI service that
// computes and compares image feature vectors. The similarity algorithm
// itself is opaque; only the HTTP contract is modelled here.
//
// All methods are stateless HTTP calls except GenerateImage, which writes
// a temporary file the caller must remove.
type EmbeddingService interface {
	// CheckHealth probes the service. It never returns an error;
	// failures are reported in the returned value.
	CheckHealth(ctx context.Context) domain.ServiceHealth

	// IndexBatch sends one batch of catalog items to the embedding store.
	// One HTTP call per invocation; the caller controls batching.
	IndexBatch(ctx context.Context, items []domain.CatalogItem, applicationID string) error

	// SearchByImage matches an uploaded image against the tenant's index.
	// Returns domain.ErrTimeout when the upstream call exceeds its deadline,
	// domain.ErrEmbeddingService on any non-2xx response.
	SearchByImage(ctx context.Context, query domain.ImageQuery) ([]domain.EmbeddingMatch, error)

	// RemoveIndex deletes every embedding stored for the application.
	RemoveIndex(ctx context.Context, applicationID string) error

	// GenerateImage renders a prompt to an image, streaming the response
	// body to a temp file. The file is fully written before returning;
	// the caller owns deletion of the file on success and failure alike.
	GenerateImage(ctx context.Context, prompt string) (*domain.GeneratedImage, error)
}
