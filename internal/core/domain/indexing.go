package domain

import "time"

// RunStatus is the lifecycle state of an indexing run.
type RunStatus string

// Indexing run states. A run is marked in-progress before any chunk is
// dispatched and ends in exactly one of completed or failed.
const (
	RunIdle       RunStatus = "idle"
	RunInProgress RunStatus = "in-progress"
	RunCompleted  RunStatus = "completed"
	RunFailed     RunStatus = "failed"
)

// Valid reports whether s is one of the enumerated run states.
func (s RunStatus) Valid() bool {
	switch s {
	case RunIdle, RunInProgress, RunCompleted, RunFailed:
		return true
	}
	return false
}

// IndexingRun is the ephemeral per-application indexing state.
// It lives only in process memory: a restart resets every application
// back to the implicit idle state.
type IndexingRun struct {
	// Status is the current run state.
	Status RunStatus

	// UpdatedAt is when the status last changed. Zero when no run has
	// ever been recorded for the application.
	UpdatedAt time.Time
}

// TriggerReceipt is returned to the caller that started an indexing run.
// The run itself proceeds in the background; progress is observed by
// polling the run status.
type TriggerReceipt struct {
	// ApplicationID is the tenant whose catalog is being indexed.
	ApplicationID string

	// ProductCount is the number of catalog items queued for indexing.
	ProductCount int

	// ChunkCount is ceil(ProductCount / chunk size).
	ChunkCount int
}
