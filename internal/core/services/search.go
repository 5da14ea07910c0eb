package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/custodia-labs/snapshop/internal/core/domain"
	"github.com/custodia-labs/snapshop/internal/core/ports/driven"
	"github.com/custodia-labs/snapshop/internal/core/ports/driving"
	"github.com/custodia-labs/snapshop/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.ImageSearchService = (*SearchService)(nil)

// SearchService matches uploaded images against the embedding index and
// enriches raw matches with live catalog data.
type SearchService struct {
	embeddings driven.EmbeddingService
	catalog    driven.CatalogStore
	events     driven.EventLog
}

// NewSearchService creates a new image search service.
// The events log is optional; when nil, analytics writes are skipped.
func NewSearchService(
	embeddings driven.EmbeddingService,
	catalog driven.CatalogStore,
	events driven.EventLog,
) *SearchService {
	return &SearchService{
		embeddings: embeddings,
		catalog:    catalog,
		events:     events,
	}
}

// SearchByImage runs the embedding-service search and the catalog read in
// parallel, joins both, then merges the matches into deduplicated,
// enriched results in service relevance order.
func (s *SearchService) SearchByImage(ctx context.Context, query domain.ImageQuery) ([]domain.EnrichedResult, error) {
	if len(query.Image) == 0 {
		return nil, fmt.Errorf("%w: no image uploaded", domain.ErrInvalidArgument)
	}

	logger.Debug("Image search: file=%s company=%s app=%s",
		query.FileName, query.CompanyID, query.ApplicationID)

	// 1. Fan out the upstream search and the catalog read. This is a
	// join, not a race: both must complete, and either failure fails the
	// whole request with its originating error.
	var (
		matches  []domain.EmbeddingMatch
		items    []domain.CatalogItem
		matchErr error
		itemsErr error
	)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		matches, matchErr = s.embeddings.SearchByImage(ctx, query)
	}()
	go func() {
		defer wg.Done()
		items, itemsErr = s.catalog.FetchAll(ctx)
	}()
	wg.Wait()

	if matchErr != nil {
		return nil, fmt.Errorf("image search: %w", matchErr)
	}
	if itemsErr != nil {
		return nil, fmt.Errorf("fetch catalog: %w", itemsErr)
	}

	// 2. No visual match is a valid, successful outcome.
	if len(matches) == 0 {
		logger.Info("No matches found for %s", query.FileName)
		s.recordEvent(ctx, query, domain.EventImageNotFound, map[string]string{
			"file_name": query.FileName,
		})
		return []domain.EnrichedResult{}, nil
	}

	// 3. Merge in match order, first occurrence of each slug wins.
	results := enrich(matches, items)

	// 4. Exactly one analytics event per request, summarizing only the
	// top match regardless of how many results were produced.
	s.recordEvent(ctx, query, domain.EventImageSearch, matches[0])

	logger.Info("Returning %d unique image search results", len(results))
	return results, nil
}

// enrich joins matches with catalog items by slug. Matches with an empty
// slug, a repeated slug, or no catalog record (stale index entries) are
// dropped silently; order follows the first occurrence of each slug.
func enrich(matches []domain.EmbeddingMatch, items []domain.CatalogItem) []domain.EnrichedResult {
	bySlug := make(map[string]domain.CatalogItem, len(items))
	for _, item := range items {
		bySlug[item.Slug] = item
	}

	results := make([]domain.EnrichedResult, 0, len(matches))
	seen := make(map[string]bool, len(matches))

	for _, match := range matches {
		if match.Slug == "" || seen[match.Slug] {
			continue
		}

		item, ok := bySlug[match.Slug]
		if !ok {
			logger.Debug("Dropping stale match %q: not in catalog", match.Slug)
			continue
		}

		name := match.Name
		if name == "" {
			name = item.Name
		}

		results = append(results, domain.EnrichedResult{
			Slug:             match.Slug,
			Name:             name,
			Image:            match.Image,
			Text:             match.Text,
			Description:      item.Description,
			ShortDescription: item.ShortDescription,
			Category:         item.CategorySlug,
			Brand:            item.BrandName,
			Media:            item.Media,
			Sizes:            item.Sizes,
		})
		seen[match.Slug] = true
	}

	return results
}

// recordEvent writes one analytics event. Failures are logged and never
// fail the search request.
func (s *SearchService) recordEvent(ctx context.Context, query domain.ImageQuery, typ domain.EventType, payload any) {
	if s.events == nil {
		return
	}

	summary, err := json.Marshal(payload)
	if err != nil {
		logger.Warn("Failed to summarize %s event: %v", typ, err)
		return
	}

	event := domain.Event{
		ApplicationID: query.ApplicationID,
		CompanyID:     query.CompanyID,
		Type:          typ,
		Query:         string(summary),
	}
	if err := s.events.Record(ctx, event); err != nil {
		logger.Warn("Failed to log %s event: %v", typ, err)
	}
}
