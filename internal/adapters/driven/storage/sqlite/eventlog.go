package sqlite

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/snapshop/internal/core/domain"
	"github.com/custodia-labs/snapshop/internal/core/ports/driven"
)

// eventLog implements driven.EventLog.
type eventLog struct {
	store *Store
}

var _ driven.EventLog = (*eventLog)(nil)

// Record appends one analytics event. An empty ID or timestamp is filled in.
func (l *eventLog) Record(ctx context.Context, event domain.Event) error {
	if event.ApplicationID == "" || event.CompanyID == "" {
		return fmt.Errorf("%w: application id and company id are required", domain.ErrInvalidArgument)
	}
	if !event.Type.Valid() {
		return fmt.Errorf("%w: unknown event type %q", domain.ErrInvalidArgument, event.Type)
	}

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	_, err := l.store.db.ExecContext(ctx, `
		INSERT INTO events (id, application_id, company_id, type, query, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)
	`, event.ID, event.ApplicationID, event.CompanyID, string(event.Type), event.Query, event.Timestamp.UTC())

	if err != nil {
		return storeError("save event", err)
	}
	return nil
}

// Report aggregates events for an application between from and to.
func (l *eventLog) Report(ctx context.Context, applicationID string, from, to time.Time) (*domain.Report, error) {
	if applicationID == "" {
		return nil, fmt.Errorf("%w: application id is required", domain.ErrInvalidArgument)
	}

	counts, err := l.typeCounts(ctx, applicationID, from, to)
	if err != nil {
		return nil, err
	}

	trends, err := l.searchTrends(ctx, applicationID, from, to)
	if err != nil {
		return nil, err
	}

	var searches, notFound int
	for _, c := range counts {
		switch c.Type {
		case domain.EventImageSearch:
			searches = c.Count
		case domain.EventImageNotFound:
			notFound = c.Count
		}
	}

	total := searches + notFound
	var matchRate float64
	if total > 0 {
		matchRate = float64(searches) / float64(total) * 100
	}

	days := math.Max(math.Ceil(to.Sub(from).Hours()/24), 1)

	return &domain.Report{
		Counts:           counts,
		MatchRate:        round2(matchRate),
		AvgDailySearches: round2(float64(total) / days),
		SearchTrends:     trends,
	}, nil
}

// typeCounts returns the event totals per type within the window.
func (l *eventLog) typeCounts(ctx context.Context, applicationID string, from, to time.Time) ([]domain.TypeCount, error) {
	rows, err := l.store.db.QueryContext(ctx, `
		SELECT type, COUNT(*)
		FROM events
		WHERE application_id = ? AND timestamp >= ? AND timestamp <= ?
		GROUP BY type
		ORDER BY type
	`, applicationID, from.UTC(), to.UTC())
	if err != nil {
		return nil, storeError("query event counts", err)
	}
	defer rows.Close()

	counts := []domain.TypeCount{}
	for rows.Next() {
		var c domain.TypeCount
		var typ string
		if err := rows.Scan(&typ, &c.Count); err != nil {
			return nil, storeError("scan event count", err)
		}
		c.Type = domain.EventType(typ)
		counts = append(counts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, storeError("iterate event counts", err)
	}
	return counts, nil
}

// searchTrends returns the per-day image_search counts, ascending by date.
func (l *eventLog) searchTrends(ctx context.Context, applicationID string, from, to time.Time) ([]domain.DailyCount, error) {
	rows, err := l.store.db.QueryContext(ctx, `
		SELECT date(timestamp), COUNT(*)
		FROM events
		WHERE application_id = ? AND type = ? AND timestamp >= ? AND timestamp <= ?
		GROUP BY date(timestamp)
		ORDER BY date(timestamp)
	`, applicationID, string(domain.EventImageSearch), from.UTC(), to.UTC())
	if err != nil {
		return nil, storeError("query search trends", err)
	}
	defer rows.Close()

	trends := []domain.DailyCount{}
	for rows.Next() {
		var d domain.DailyCount
		if err := rows.Scan(&d.Date, &d.Count); err != nil {
			return nil, storeError("scan search trend", err)
		}
		trends = append(trends, d)
	}

	if err := rows.Err(); err != nil {
		return nil, storeError("iterate search trends", err)
	}
	return trends, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
