// Package domain defines the core business entities for snapshop.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - CatalogItem: A normalized product record
//   - IndexingRun: Ephemeral per-application indexing state
//   - EmbeddingMatch: A raw result from the embedding service
//   - EnrichedResult: A match joined with its catalog record
//   - Event / Report: Analytics records and their aggregation
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
