package services

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/snapshop/internal/core/domain"
	"github.com/custodia-labs/snapshop/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
type mockEmbeddingService struct {
	mu sync.Mutex

	// IndexBatch behaviour
	batches     [][]string // slugs per dispatched batch, in order
	failOnBatch int        // 1-based batch number to fail on; 0 = never
	indexErr    error      // error returned when failing

	// SearchByImage behaviour
	matches   []domain.EmbeddingMatch
	searchErr error

	// GenerateImage behaviour
	generated   *domain.GeneratedImage
	generateErr error

	// RemoveIndex behaviour
	removeErr   error
	removedApps []string

	health domain.ServiceHealth
}

var _ driven.EmbeddingService = (*mockEmbeddingService)(nil)

func (m *mockEmbeddingService) CheckHealth(_ context.Context) domain.ServiceHealth {
	return m.health
}

func (m *mockEmbeddingService) IndexBatch(_ context.Context, items []domain.CatalogItem, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	slugs := make([]string, len(items))
	for i, item := range items {
		slugs[i] = item.Slug
	}
	m.batches = append(m.batches, slugs)

	if m.failOnBatch > 0 && len(m.batches) == m.failOnBatch {
		if m.indexErr != nil {
			return m.indexErr
		}
		return domain.ErrEmbeddingService
	}
	return nil
}

func (m *mockEmbeddingService) dispatched() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]string, len(m.batches))
	copy(out, m.batches)
	return out
}

func (m *mockEmbeddingService) SearchByImage(_ context.Context, _ domain.ImageQuery) ([]domain.EmbeddingMatch, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.matches, nil
}

func (m *mockEmbeddingService) RemoveIndex(_ context.Context, applicationID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.removeErr != nil {
		return m.removeErr
	}
	m.removedApps = append(m.removedApps, applicationID)
	return nil
}

func (m *mockEmbeddingService) GenerateImage(_ context.Context, _ string) (*domain.GeneratedImage, error) {
	if m.generateErr != nil {
		return nil, m.generateErr
	}
	return m.generated, nil
}

// mockCatalogStore implements driven.CatalogStore for testing.
type mockCatalogStore struct {
	items    []domain.CatalogItem
	fetchErr error
	delay    time.Duration
}

var _ driven.CatalogStore = (*mockCatalogStore)(nil)

func (m *mockCatalogStore) FetchAll(ctx context.Context) ([]domain.CatalogItem, error) {
	if m.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.delay):
		}
	}
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.items, nil
}

// mockEventLog implements driven.EventLog for testing.
type mockEventLog struct {
	mu        sync.Mutex
	events    []domain.Event
	recordErr error

	report     *domain.Report
	reportErr  error
	lastAppID  string
	lastWindow [2]time.Time
}

var _ driven.EventLog = (*mockEventLog)(nil)

func (m *mockEventLog) Record(_ context.Context, event domain.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.recordErr != nil {
		return m.recordErr
	}
	m.events = append(m.events, event)
	return nil
}

func (m *mockEventLog) Report(_ context.Context, applicationID string, from, to time.Time) (*domain.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastAppID = applicationID
	m.lastWindow = [2]time.Time{from, to}
	if m.reportErr != nil {
		return nil, m.reportErr
	}
	if m.report != nil {
		return m.report, nil
	}
	return &domain.Report{}, nil
}

func (m *mockEventLog) recorded() []domain.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Event, len(m.events))
	copy(out, m.events)
	return out
}

// mockAssetHost implements driven.AssetHost for testing.
type mockAssetHost struct {
	url       string
	uploadErr error
	uploads   []string
}

var _ driven.AssetHost = (*mockAssetHost)(nil)

func (m *mockAssetHost) Upload(_ context.Context, path, _ string) (string, error) {
	m.uploads = append(m.uploads, path)
	if m.uploadErr != nil {
		return "", m.uploadErr
	}
	return m.url, nil
}

// catalogItems builds minimal catalog items with the given slugs.
func catalogItems(slugs ...string) []domain.CatalogItem {
	items := make([]domain.CatalogItem, len(slugs))
	for i, slug := range slugs {
		items[i] = domain.CatalogItem{
			Slug:  slug,
			Name:  "Product " + slug,
			Media: []domain.Media{},
			Sizes: []domain.Size{},
		}
	}
	return items
}
