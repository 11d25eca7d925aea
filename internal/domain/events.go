package domain

import "time"

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventQueryIssued            EventType = "QueryIssued"
	EventResultsApplied         EventType = "ResultsApplied"
	EventStaleResponseDiscarded EventType = "StaleResponseDiscarded"
	EventSearchFailed           EventType = "SearchFailed"
	EventSearchSkipped          EventType = "SearchSkipped"
	EventLocationSelected       EventType = "LocationSelected"
	EventResultsDismissed       EventType = "ResultsDismissed"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// QueryIssuedEvent is emitted when a debounced query goes to the geocoder
type QueryIssuedEvent struct {
	Epoch     uint64
	Query     string
	RequestID string
}

func (e QueryIssuedEvent) Type() EventType { return EventQueryIssued }

// ResultsAppliedEvent is emitted when the latest response replaces the result list
type ResultsAppliedEvent struct {
	Epoch   uint64
	Query   string
	Count   int
	Elapsed time.Duration
}

func (e ResultsAppliedEvent) Type() EventType { return EventResultsApplied }

// StaleResponseDiscardedEvent is emitted when a superseded response arrives
type StaleResponseDiscardedEvent struct {
	Epoch   uint64 // epoch the response was issued under
	Current uint64 // epoch at arrival
	Query   string
}

func (e StaleResponseDiscardedEvent) Type() EventType { return EventStaleResponseDiscarded }

// SearchFailedEvent is emitted when the current request fails
type SearchFailedEvent struct {
	Epoch   uint64
	Query   string
	Err     error
	Elapsed time.Duration
}

func (e SearchFailedEvent) Type() EventType { return EventSearchFailed }

// SearchSkippedEvent is emitted for empty or whitespace-only queries
type SearchSkippedEvent struct {
	Query string
}

func (e SearchSkippedEvent) Type() EventType { return EventSearchSkipped }

// LocationSelectedEvent is emitted once per commit
type LocationSelectedEvent struct {
	Location Location
}

func (e LocationSelectedEvent) Type() EventType { return EventLocationSelected }

// ResultsDismissedEvent is emitted when the list is closed without a commit
type ResultsDismissedEvent struct{}

func (e ResultsDismissedEvent) Type() EventType { return EventResultsDismissed }
