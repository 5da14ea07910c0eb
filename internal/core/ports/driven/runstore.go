package driven

import (
	"context"

	"github.com/custodia-labs/snapshop/internal/core/domain"
)

// RunStatusStore tracks the current indexing run per application.
// State is scoped to the process lifetime: a restart resets every
// application to the implicit idle state, which polling clients tolerate.
//
// Concurrent writes for different applications never interfere; concurrent
// writes for the same application apply last-write-wins. Single-flight per
// application is enforced by the caller, not here.
type RunStatusStore interface {
	// Set overwrites the run state for an application, stamping the
	// current time. Returns domain.ErrInvalidArgument when the id is
	// empty or the status is not an enumerated value.
	Set(ctx context.Context, applicationID string, status domain.RunStatus) error

	// Get returns the run state for an application. A missing entry is
	// reported as idle with a zero UpdatedAt, not as an error. Returns
	// domain.ErrInvalidArgument when the id is empty.
	Get(ctx context.Context, applicationID string) (*domain.IndexingRun, error)
}
