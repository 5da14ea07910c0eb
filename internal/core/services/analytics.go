package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/snapshop/internal/core/domain"
	"github.com/custodia-labs/snapshop/internal/core/ports/driven"
	"github.com/custodia-labs/snapshop/internal/core/ports/driving"
)

// Ensure AnalyticsService implements the interface.
var _ driving.AnalyticsService = (*AnalyticsService)(nil)

// defaultReportWindow is used when the caller gives no start date.
const defaultReportWindow = 30 * 24 * time.Hour

// AnalyticsService serves the dashboard report queries.
type AnalyticsService struct {
	events driven.EventLog
	now    func() time.Time
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(events driven.EventLog) *AnalyticsService {
	return &AnalyticsService{
		events: events,
		now:    time.Now,
	}
}

// Report aggregates events for an application. Dates are YYYY-MM-DD; an
// empty from selects the last 30 days, an empty to selects now. The start
// is normalized to 00:00:00 and the end to 23:59:59 of its day.
func (a *AnalyticsService) Report(ctx context.Context, applicationID, from, to string) (*domain.Report, error) {
	if applicationID == "" {
		return nil, fmt.Errorf("%w: application id is required", domain.ErrInvalidArgument)
	}
	if a.events == nil {
		return nil, errors.New("event log not configured")
	}

	now := a.now()

	start := now.Add(-defaultReportWindow)
	if from != "" {
		day, err := time.ParseInLocation("2006-01-02", from, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid from date %q", domain.ErrInvalidArgument, from)
		}
		start = day
	}

	end := now
	if to != "" {
		day, err := time.ParseInLocation("2006-01-02", to, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid to date %q", domain.ErrInvalidArgument, to)
		}
		end = day.Add(24*time.Hour - time.Second)
	}

	return a.events.Report(ctx, applicationID, start, end)
}
