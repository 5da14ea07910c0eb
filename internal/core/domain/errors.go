package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument indicates malformed or invalid caller input.
	// Surfaced immediately, never retried.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNoProductsToIndex indicates the catalog is empty.
	// The indexing run is rejected before any status transition.
	ErrNoProductsToIndex = errors.New("no products to index")

	// ErrStoreUnavailable indicates the catalog store is unreachable or timed out.
	// No partial catalog is ever returned alongside this error.
	ErrStoreUnavailable = errors.New("catalog store unavailable")

	// ErrEmbeddingService indicates the embedding service returned an error status.
	// Indexing runs treat this as fatal for the current run; search treats it
	// as a failed request.
	ErrEmbeddingService = errors.New("embedding service error")

	// ErrTimeout indicates the embedding service exceeded its deadline.
	// Distinguished from ErrEmbeddingService so callers can choose to retry.
	ErrTimeout = errors.New("embedding service timeout")
)
