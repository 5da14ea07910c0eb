package domain

// EmbeddingMatch is one raw result from the embedding service for a query
// image, in service-defined relevance order. Matches are never persisted.
type EmbeddingMatch struct {
	// Slug identifies the matched product.
	Slug string `json:"slug"`

	// Name is the display name as known to the embedding index.
	// May be empty; the catalog name is used as a fallback.
	Name string `json:"name"`

	// Image is the representative image URL for the match.
	Image string `json:"image"`

	// Text is an explanatory snippet for why the image matched.
	Text string `json:"text"`
}

// EnrichedResult is an EmbeddingMatch joined with the catalog record for the
// same slug. A search response contains at most one EnrichedResult per slug,
// ordered by the first occurrence of the slug in the match sequence.
type EnrichedResult struct {
	Slug             string  `json:"slug"`
	Name             string  `json:"name"`
	Image            string  `json:"image"`
	Text             string  `json:"text"`
	Description      string  `json:"description"`
	ShortDescription string  `json:"short_description"`
	Category         string  `json:"category"`
	Brand            string  `json:"brand"`
	Media            []Media `json:"media"`
	Sizes            []Size  `json:"sizes"`
}

// ImageQuery is one image search request.
type ImageQuery struct {
	// Image is the raw uploaded image bytes.
	Image []byte

	// MimeType is the uploaded content type (e.g. image/jpeg).
	MimeType string

	// FileName is the original upload filename, used only for the
	// multipart part name sent upstream.
	FileName string

	// ApplicationID scopes the catalog read.
	ApplicationID string

	// CompanyID scopes the embedding-service search.
	CompanyID string
}

// ServiceHealth is the embedding service health report.
// Failures are reported as a value, never as an error.
type ServiceHealth struct {
	Healthy bool   `json:"healthy"`
	Model   string `json:"model,omitempty"`
	Device  string `json:"device,omitempty"`
	Err     string `json:"error,omitempty"`
}

// GeneratedImage is a prompt-generated image streamed to a local temp file.
// The caller owns deletion of Path on every outcome.
type GeneratedImage struct {
	Path     string
	FileName string
}
