package domain

import "time"

// EventType classifies an analytics event.
type EventType string

// Analytics event types recorded by the search and generation flows.
const (
	EventImageSearch     EventType = "image_search"
	EventImageNotFound   EventType = "image_not_found"
	EventPromptImage     EventType = "prompt_image_generation"
	EventPromptImageFail EventType = "prompt_image_failed"
)

// Valid reports whether t is a known event type.
func (t EventType) Valid() bool {
	switch t {
	case EventImageSearch, EventImageNotFound, EventPromptImage, EventPromptImageFail:
		return true
	}
	return false
}

// Event is a single fire-and-forget analytics record.
type Event struct {
	// ID is the unique event identifier, assigned by the log.
	ID string

	// ApplicationID is the tenant application the event belongs to.
	ApplicationID string

	// CompanyID is the tenant company the event belongs to.
	CompanyID string

	// Type classifies the event.
	Type EventType

	// Query is a free-form JSON summary of the triggering request.
	Query string

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// TypeCount is the number of events recorded for one type.
type TypeCount struct {
	Type  EventType `json:"type"`
	Count int       `json:"count"`
}

// DailyCount is the number of image searches on one calendar day.
type DailyCount struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// Report aggregates events for an application over a time window.
type Report struct {
	// Counts holds the event totals per type within the window.
	Counts []TypeCount `json:"report"`

	// MatchRate is image_search / (image_search + image_not_found) as a
	// percentage. Zero when no searches were recorded.
	MatchRate float64 `json:"match_rate"`

	// AvgDailySearches is total searches divided by the window length in days.
	AvgDailySearches float64 `json:"avg_daily_searches"`

	// SearchTrends is the per-day image_search count, ascending by date.
	SearchTrends []DailyCount `json:"search_trends"`
}
