package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/snapshop/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/snapshop/internal/core/domain"
)

func TestNewIndexingOrchestrator_DefaultChunkSize(t *testing.T) {
	o := NewIndexingOrchestrator(&mockCatalogStore{}, memory.NewRunStatusStore(), &mockEmbeddingService{}, 0)
	require.NotNil(t, o)
	assert.Equal(t, DefaultChunkSize, o.chunkSize)
}

func TestIndexingOrchestrator_Trigger_EmptyApplicationID(t *testing.T) {
	o := NewIndexingOrchestrator(&mockCatalogStore{}, memory.NewRunStatusStore(), &mockEmbeddingService{}, 10)

	_, err := o.Trigger(context.Background(), "")

	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestIndexingOrchestrator_Trigger_EmptyCatalog(t *testing.T) {
	runs := memory.NewRunStatusStore()
	o := NewIndexingOrchestrator(&mockCatalogStore{}, runs, &mockEmbeddingService{}, 10)

	_, err := o.Trigger(context.Background(), "app-1")

	assert.ErrorIs(t, err, domain.ErrNoProductsToIndex)

	// No status transition: the application still reads as idle.
	run, err := runs.Get(context.Background(), "app-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RunIdle, run.Status)
	assert.True(t, run.UpdatedAt.IsZero())
}

func TestIndexingOrchestrator_Trigger_StoreUnavailable(t *testing.T) {
	catalog := &mockCatalogStore{fetchErr: domain.ErrStoreUnavailable}
	runs := memory.NewRunStatusStore()
	o := NewIndexingOrchestrator(catalog, runs, &mockEmbeddingService{}, 10)

	_, err := o.Trigger(context.Background(), "app-1")

	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)

	run, err := runs.Get(context.Background(), "app-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RunIdle, run.Status)
}

func TestIndexingOrchestrator_Trigger_Success_ChunksInOrder(t *testing.T) {
	catalog := &mockCatalogStore{items: catalogItems("a", "b", "c", "d", "e")}
	runs := memory.NewRunStatusStore()
	embeddings := &mockEmbeddingService{}
	o := NewIndexingOrchestrator(catalog, runs, embeddings, 2)

	receipt, err := o.Trigger(context.Background(), "app-1")
	require.NoError(t, err)
	assert.Equal(t, 5, receipt.ProductCount)
	assert.Equal(t, 3, receipt.ChunkCount)

	o.Wait()

	// ceil(5/2) = 3 chunks in strictly increasing order, last one smaller.
	batches := embeddings.dispatched()
	require.Len(t, batches, 3)
	assert.Equal(t, []string{"a", "b"}, batches[0])
	assert.Equal(t, []string{"c", "d"}, batches[1])
	assert.Equal(t, []string{"e"}, batches[2])

	run, err := runs.Get(context.Background(), "app-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RunCompleted, run.Status)
	assert.False(t, run.UpdatedAt.IsZero())
}

func TestIndexingOrchestrator_Trigger_SingleChunk(t *testing.T) {
	catalog := &mockCatalogStore{items: catalogItems("a", "b")}
	runs := memory.NewRunStatusStore()
	embeddings := &mockEmbeddingService{}
	o := NewIndexingOrchestrator(catalog, runs, embeddings, 100)

	receipt, err := o.Trigger(context.Background(), "app-1")
	require.NoError(t, err)
	assert.Equal(t, 1, receipt.ChunkCount)

	o.Wait()

	assert.Len(t, embeddings.dispatched(), 1)
}

func TestIndexingOrchestrator_Trigger_FailureStopsDispatch(t *testing.T) {
	catalog := &mockCatalogStore{items: catalogItems("a", "b", "c", "d", "e", "f")}
	runs := memory.NewRunStatusStore()
	embeddings := &mockEmbeddingService{
		failOnBatch: 2,
		indexErr:    fmt.Errorf("%w: boom", domain.ErrEmbeddingService),
	}
	o := NewIndexingOrchestrator(catalog, runs, embeddings, 2)

	_, err := o.Trigger(context.Background(), "app-1")
	require.NoError(t, err)

	o.Wait()

	// Chunk 2 failed: chunk 3 is never sent and nothing is retried.
	assert.Len(t, embeddings.dispatched(), 2)

	run, err := runs.Get(context.Background(), "app-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RunFailed, run.Status)
}

func TestIndexingOrchestrator_Trigger_MarksInProgressBeforeDispatch(t *testing.T) {
	// A run that fails on the very first chunk must still have passed
	// through in-progress first.
	catalog := &mockCatalogStore{items: catalogItems("a")}
	runs := memory.NewRunStatusStore()
	embeddings := &mockEmbeddingService{failOnBatch: 1}
	o := NewIndexingOrchestrator(catalog, runs, embeddings, 1)

	_, err := o.Trigger(context.Background(), "app-1")
	require.NoError(t, err)

	// Trigger returns with the run already recorded.
	run, err := runs.Get(context.Background(), "app-1")
	require.NoError(t, err)
	assert.Contains(t, []domain.RunStatus{domain.RunInProgress, domain.RunFailed}, run.Status)

	o.Wait()

	run, err = runs.Get(context.Background(), "app-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RunFailed, run.Status)
}

func TestIndexingOrchestrator_Trigger_ConcurrentApplications(t *testing.T) {
	catalog := &mockCatalogStore{items: catalogItems("a", "b", "c")}
	runs := memory.NewRunStatusStore()
	embeddings := &mockEmbeddingService{}
	o := NewIndexingOrchestrator(catalog, runs, embeddings, 2)

	for i := 0; i < 5; i++ {
		_, err := o.Trigger(context.Background(), fmt.Sprintf("app-%d", i))
		require.NoError(t, err)
	}

	o.Wait()

	for i := 0; i < 5; i++ {
		run, err := runs.Get(context.Background(), fmt.Sprintf("app-%d", i))
		require.NoError(t, err)
		assert.Equal(t, domain.RunCompleted, run.Status)
	}
}

func TestIndexingOrchestrator_Status_DefaultsToIdle(t *testing.T) {
	o := NewIndexingOrchestrator(&mockCatalogStore{}, memory.NewRunStatusStore(), &mockEmbeddingService{}, 10)

	run, err := o.Status(context.Background(), "never-seen")

	require.NoError(t, err)
	assert.Equal(t, domain.RunIdle, run.Status)
	assert.True(t, run.UpdatedAt.IsZero())
}

func TestIndexingOrchestrator_RemoveIndex(t *testing.T) {
	embeddings := &mockEmbeddingService{}
	o := NewIndexingOrchestrator(&mockCatalogStore{}, memory.NewRunStatusStore(), embeddings, 10)

	err := o.RemoveIndex(context.Background(), "app-1")

	require.NoError(t, err)
	assert.Equal(t, []string{"app-1"}, embeddings.removedApps)
}

func TestIndexingOrchestrator_RemoveIndex_EmptyApplicationID(t *testing.T) {
	o := NewIndexingOrchestrator(&mockCatalogStore{}, memory.NewRunStatusStore(), &mockEmbeddingService{}, 10)

	err := o.RemoveIndex(context.Background(), "")

	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestIndexingOrchestrator_RemoveIndex_UpstreamError(t *testing.T) {
	embeddings := &mockEmbeddingService{removeErr: errors.New("boom")}
	o := NewIndexingOrchestrator(&mockCatalogStore{}, memory.NewRunStatusStore(), embeddings, 10)

	err := o.RemoveIndex(context.Background(), "app-1")

	assert.Error(t, err)
}

func TestIndexingOrchestrator_CheckHealth(t *testing.T) {
	embeddings := &mockEmbeddingService{
		health: domain.ServiceHealth{Healthy: true, Model: "clip-vit", Device: "cuda"},
	}
	o := NewIndexingOrchestrator(&mockCatalogStore{}, memory.NewRunStatusStore(), embeddings, 10)

	health := o.CheckHealth(context.Background())

	assert.True(t, health.Healthy)
	assert.Equal(t, "clip-vit", health.Model)
}
