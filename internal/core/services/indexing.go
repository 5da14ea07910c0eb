package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/snapshop/internal/core/domain"
	"github.com/custodia-labs/snapshop/internal/core/ports/driven"
	"github.com/custodia-labs/snapshop/internal/core/ports/driving"
	"github.com/custodia-labs/snapshop/internal/logger"
)

// Ensure IndexingOrchestrator implements the interface.
var _ driving.Indexer = (*IndexingOrchestrator)(nil)

// DefaultChunkSize is the number of catalog items per embeddings_store call.
const DefaultChunkSize = 100

// IndexingOrchestrator drives full-catalog indexing runs. Chunk dispatch is
// strictly sequential to bound upstream load; runs for different
// applications may proceed concurrently.
type IndexingOrchestrator struct {
	catalog    driven.CatalogStore
	runs       driven.RunStatusStore
	embeddings driven.EmbeddingService
	chunkSize  int

	wg sync.WaitGroup
}

// NewIndexingOrchestrator creates a new indexing orchestrator.
// A chunkSize of zero selects DefaultChunkSize.
func NewIndexingOrchestrator(
	catalog driven.CatalogStore,
	runs driven.RunStatusStore,
	embeddings driven.EmbeddingService,
	chunkSize int,
) *IndexingOrchestrator {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &IndexingOrchestrator{
		catalog:    catalog,
		runs:       runs,
		embeddings: embeddings,
		chunkSize:  chunkSize,
	}
}

// Trigger starts a background indexing run for an application.
//
// The call returns once the catalog has been read and the run marked
// in-progress; chunk dispatch proceeds in the background and the caller
// observes progress only via Status. The run itself cannot be cancelled by
// the triggering request - only an upstream failure stops it early.
func (o *IndexingOrchestrator) Trigger(ctx context.Context, applicationID string) (*domain.TriggerReceipt, error) {
	if applicationID == "" {
		return nil, fmt.Errorf("%w: application id is required", domain.ErrInvalidArgument)
	}

	// 1. Read the full catalog. An empty catalog rejects the trigger
	// before any status transition.
	items, err := o.catalog.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	if len(items) == 0 {
		logger.Warn("No products found to index for application %s", applicationID)
		return nil, domain.ErrNoProductsToIndex
	}

	// 2. Mark the run in-progress before any chunk is dispatched.
	if err := o.runs.Set(ctx, applicationID, domain.RunInProgress); err != nil {
		return nil, fmt.Errorf("set run status: %w", err)
	}

	chunkCount := (len(items) + o.chunkSize - 1) / o.chunkSize
	logger.Info("Indexing %d products for application %s in %d chunks",
		len(items), applicationID, chunkCount)

	// 3. Dispatch in the background, supervised through a result channel
	// so the terminal status write happens exactly once. The run outlives
	// the triggering request's context.
	runCtx := context.WithoutCancel(ctx)
	resultCh := make(chan error, 1)

	o.wg.Add(2)
	go func() {
		defer o.wg.Done()
		resultCh <- o.dispatch(runCtx, applicationID, items)
	}()
	go func() {
		defer o.wg.Done()
		o.finish(runCtx, applicationID, <-resultCh)
	}()

	return &domain.TriggerReceipt{
		ApplicationID: applicationID,
		ProductCount:  len(items),
		ChunkCount:    chunkCount,
	}, nil
}

// dispatch sends the catalog to the embedding store in fixed-size chunks,
// strictly in order. The first chunk failure aborts the run: chunks after
// the failed one are never sent. Chunks already accepted upstream are not
// rolled back, so the embedding store may hold a prefix of the catalog on
// failure.
func (o *IndexingOrchestrator) dispatch(ctx context.Context, applicationID string, items []domain.CatalogItem) error {
	total := (len(items) + o.chunkSize - 1) / o.chunkSize

	for i := 0; i < len(items); i += o.chunkSize {
		end := i + o.chunkSize
		if end > len(items) {
			end = len(items)
		}
		chunk := items[i:end]
		chunkNumber := i/o.chunkSize + 1

		logger.Debug("Dispatching chunk %d/%d (%d products)", chunkNumber, total, len(chunk))
		if err := o.embeddings.IndexBatch(ctx, chunk, applicationID); err != nil {
			return fmt.Errorf("indexing failed on chunk %d/%d: %w", chunkNumber, total, err)
		}
	}
	return nil
}

// finish records the run's terminal state.
func (o *IndexingOrchestrator) finish(ctx context.Context, applicationID string, runErr error) {
	if runErr != nil {
		logger.Error("Indexing failed for application %s: %v", applicationID, runErr)
		if err := o.runs.Set(ctx, applicationID, domain.RunFailed); err != nil {
			logger.Error("Failed to record failed run for %s: %v", applicationID, err)
		}
		return
	}

	logger.Info("Indexing completed for application %s", applicationID)
	if err := o.runs.Set(ctx, applicationID, domain.RunCompleted); err != nil {
		logger.Error("Failed to record completed run for %s: %v", applicationID, err)
	}
}

// Status returns the current run state for an application.
func (o *IndexingOrchestrator) Status(ctx context.Context, applicationID string) (*domain.IndexingRun, error) {
	return o.runs.Get(ctx, applicationID)
}

// RemoveIndex deletes the application's embeddings upstream.
func (o *IndexingOrchestrator) RemoveIndex(ctx context.Context, applicationID string) error {
	if applicationID == "" {
		return fmt.Errorf("%w: application id is required", domain.ErrInvalidArgument)
	}
	if err := o.embeddings.RemoveIndex(ctx, applicationID); err != nil {
		return fmt.Errorf("remove index: %w", err)
	}
	logger.Info("Index removed for application %s", applicationID)
	return nil
}

// CheckHealth probes the embedding service.
func (o *IndexingOrchestrator) CheckHealth(ctx context.Context) domain.ServiceHealth {
	return o.embeddings.CheckHealth(ctx)
}

// Wait blocks until every background run spawned so far has finished.
// Used on shutdown and in tests; pollers use Status instead.
func (o *IndexingOrchestrator) Wait() {
	o.wg.Wait()
}
