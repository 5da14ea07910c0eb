package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/snapshop/internal/core/domain"
)

// EventLog accepts fire-and-forget analytics writes and serves the
// aggregation queries behind the dashboard report.
type EventLog interface {
	// Record appends one event. Returns domain.ErrInvalidArgument when
	// the application id, company id or type is missing or unknown.
	Record(ctx context.Context, event domain.Event) error

	// Report aggregates events for an application between from and to
	// (inclusive).
	Report(ctx context.Context, applicationID string, from, to time.Time) (*domain.Report, error)
}
