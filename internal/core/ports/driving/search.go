package driving

import (
	"context"

	"github.com/custodia-labs/snapshop/internal/core/domain"
)

// ImageSearchService matches an uploaded image against the embedding index
// and enriches the matches with live catalog data.
type ImageSearchService interface {
	// SearchByImage returns deduplicated, enriched results in
	// embedding-service relevance order. Zero matches is a successful
	// outcome with an empty slice.
	SearchByImage(ctx context.Context, query domain.ImageQuery) ([]domain.EnrichedResult, error)
}

// GenerateService renders a text prompt to a hosted product image.
type GenerateService interface {
	// Generate produces an image from the prompt, publishes it via the
	// asset host and returns the hosted URL. The intermediate temp file
	// is removed on every outcome.
	Generate(ctx context.Context, prompt, applicationID, companyID string) (string, error)
}

// AnalyticsService serves the dashboard report queries.
type AnalyticsService interface {
	// Report aggregates events for an application. Zero times select the
	// default window (the last 30 days, ending now).
	Report(ctx context.Context, applicationID string, from, to string) (*domain.Report, error)
}
