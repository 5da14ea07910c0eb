package services

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/snapshop/internal/core/domain"
)

func testQuery() domain.ImageQuery {
	return domain.ImageQuery{
		Image:         []byte("fake-jpeg-bytes"),
		MimeType:      "image/jpeg",
		FileName:      "shoe.jpg",
		ApplicationID: "app-1",
		CompanyID:     "company-1",
	}
}

func TestSearchService_SearchByImage_EmptyImage(t *testing.T) {
	s := NewSearchService(&mockEmbeddingService{}, &mockCatalogStore{}, nil)

	_, err := s.SearchByImage(context.Background(), domain.ImageQuery{})

	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestSearchService_SearchByImage_EnrichesMatches(t *testing.T) {
	embeddings := &mockEmbeddingService{
		matches: []domain.EmbeddingMatch{
			{Slug: "red-shoe", Name: "Red Shoe", Image: "http://x/red.jpg", Text: "red sneaker"},
		},
	}
	catalog := &mockCatalogStore{
		items: []domain.CatalogItem{{
			Slug:         "red-shoe",
			Name:         "Red Shoe",
			Description:  "A bright red running shoe",
			CategorySlug: "footwear",
			BrandName:    "Acme",
			Media:        []domain.Media{{URL: "http://x/red-1.jpg", Type: "image"}},
			Sizes:        []domain.Size{{Size: "42", MarkedPrice: domain.PriceRange{Min: 99, Max: 99}}},
		}},
	}
	s := NewSearchService(embeddings, catalog, nil)

	results, err := s.SearchByImage(context.Background(), testQuery())

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "red-shoe", results[0].Slug)
	assert.Equal(t, "A bright red running shoe", results[0].Description)
	assert.Equal(t, "footwear", results[0].Category)
	assert.Equal(t, "Acme", results[0].Brand)
	require.Len(t, results[0].Media, 1)
	require.Len(t, results[0].Sizes, 1)
}

func TestSearchService_SearchByImage_DeduplicatesBySlug(t *testing.T) {
	embeddings := &mockEmbeddingService{
		matches: []domain.EmbeddingMatch{
			{Slug: "a", Name: "A"},
			{Slug: "b", Name: "B"},
			{Slug: "a", Name: "A again"},
		},
	}
	catalog := &mockCatalogStore{items: catalogItems("a")}
	s := NewSearchService(embeddings, catalog, nil)

	results, err := s.SearchByImage(context.Background(), testQuery())

	require.NoError(t, err)
	// "b" has no catalog record and the repeated "a" is dropped.
	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].Slug)
	assert.Equal(t, "A", results[0].Name)
}

func TestSearchService_SearchByImage_PreservesMatchOrder(t *testing.T) {
	embeddings := &mockEmbeddingService{
		matches: []domain.EmbeddingMatch{
			{Slug: "c"}, {Slug: "a"}, {Slug: "b"}, {Slug: "c"},
		},
	}
	catalog := &mockCatalogStore{items: catalogItems("a", "b", "c")}
	s := NewSearchService(embeddings, catalog, nil)

	results, err := s.SearchByImage(context.Background(), testQuery())

	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "c", results[0].Slug)
	assert.Equal(t, "a", results[1].Slug)
	assert.Equal(t, "b", results[2].Slug)
}

func TestSearchService_SearchByImage_DropsEmptyAndStaleSlugs(t *testing.T) {
	embeddings := &mockEmbeddingService{
		matches: []domain.EmbeddingMatch{
			{Slug: ""},
			{Slug: "gone-from-catalog"},
			{Slug: "a"},
		},
	}
	catalog := &mockCatalogStore{items: catalogItems("a")}
	s := NewSearchService(embeddings, catalog, nil)

	results, err := s.SearchByImage(context.Background(), testQuery())

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].Slug)
}

func TestSearchService_SearchByImage_NameFallsBackToCatalog(t *testing.T) {
	embeddings := &mockEmbeddingService{
		matches: []domain.EmbeddingMatch{{Slug: "a", Name: ""}},
	}
	catalog := &mockCatalogStore{items: catalogItems("a")}
	s := NewSearchService(embeddings, catalog, nil)

	results, err := s.SearchByImage(context.Background(), testQuery())

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Product a", results[0].Name)
}

func TestSearchService_SearchByImage_NoMatches(t *testing.T) {
	events := &mockEventLog{}
	s := NewSearchService(&mockEmbeddingService{}, &mockCatalogStore{items: catalogItems("a")}, events)

	results, err := s.SearchByImage(context.Background(), testQuery())

	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)

	recorded := events.recorded()
	require.Len(t, recorded, 1)
	assert.Equal(t, domain.EventImageNotFound, recorded[0].Type)
	assert.Equal(t, "app-1", recorded[0].ApplicationID)
}

func TestSearchService_SearchByImage_RecordsTopMatchOnly(t *testing.T) {
	embeddings := &mockEmbeddingService{
		matches: []domain.EmbeddingMatch{
			{Slug: "a", Name: "A"},
			{Slug: "b", Name: "B"},
		},
	}
	events := &mockEventLog{}
	s := NewSearchService(embeddings, &mockCatalogStore{items: catalogItems("a", "b")}, events)

	_, err := s.SearchByImage(context.Background(), testQuery())
	require.NoError(t, err)

	recorded := events.recorded()
	require.Len(t, recorded, 1)
	assert.Equal(t, domain.EventImageSearch, recorded[0].Type)
	assert.Equal(t, "company-1", recorded[0].CompanyID)

	var top domain.EmbeddingMatch
	require.NoError(t, json.Unmarshal([]byte(recorded[0].Query), &top))
	assert.Equal(t, "a", top.Slug)
}

func TestSearchService_SearchByImage_EmbeddingError(t *testing.T) {
	embeddings := &mockEmbeddingService{
		searchErr: fmt.Errorf("%w: search timed out", domain.ErrTimeout),
	}
	s := NewSearchService(embeddings, &mockCatalogStore{items: catalogItems("a")}, nil)

	_, err := s.SearchByImage(context.Background(), testQuery())

	assert.ErrorIs(t, err, domain.ErrTimeout)
}

func TestSearchService_SearchByImage_CatalogError(t *testing.T) {
	catalog := &mockCatalogStore{fetchErr: domain.ErrStoreUnavailable}
	s := NewSearchService(&mockEmbeddingService{matches: []domain.EmbeddingMatch{{Slug: "a"}}}, catalog, nil)

	_, err := s.SearchByImage(context.Background(), testQuery())

	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestSearchService_SearchByImage_EmbeddingErrorWinsOverCatalogError(t *testing.T) {
	embeddings := &mockEmbeddingService{
		searchErr: fmt.Errorf("%w: bad gateway", domain.ErrEmbeddingService),
	}
	catalog := &mockCatalogStore{fetchErr: domain.ErrStoreUnavailable}
	s := NewSearchService(embeddings, catalog, nil)

	_, err := s.SearchByImage(context.Background(), testQuery())

	assert.ErrorIs(t, err, domain.ErrEmbeddingService)
	assert.NotErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestSearchService_SearchByImage_EventFailureDoesNotFailSearch(t *testing.T) {
	embeddings := &mockEmbeddingService{
		matches: []domain.EmbeddingMatch{{Slug: "a", Name: "A"}},
	}
	events := &mockEventLog{recordErr: domain.ErrStoreUnavailable}
	s := NewSearchService(embeddings, &mockCatalogStore{items: catalogItems("a")}, events)

	results, err := s.SearchByImage(context.Background(), testQuery())

	require.NoError(t, err)
	assert.Len(t, results, 1)
}
