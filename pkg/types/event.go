package types

import "time"

// EventStatus is the lifecycle status of a canonical event.
type EventStatus string

const (
	EventStatusUpcoming  EventStatus = "upcoming"
	EventStatusLive      EventStatus = "live"
	EventStatusCompleted EventStatus = "completed"
)

// Event is the system's unified record for one real-world match, shared across
// all providers that report on it. ExternalSource/ExternalID identify the
// upstream record that created it and drive idempotent upserts.
type Event struct {
	ID             int64
	Sport          string
	League         string
	HomeTeam       string
	AwayTeam       string
	CommenceTime   time.Time
	Status         EventStatus
	ExternalSource string
	ExternalID     string
}

// ProviderEvent is a sporting fixture as seen by one upstream provider.
// Identity is (Provider, ProviderEventID); the pair is immutable once created.
// EventID is zero until the resolver links the record to a canonical event.
type ProviderEvent struct {
	Provider        string
	ProviderEventID string
	Sport           string
	League          string
	HomeTeam        string
	AwayTeam        string
	CommenceTime    time.Time
	EventID         int64
	UpdatedAt       time.Time
}

// Linked reports whether the provider event has been resolved to a canonical event.
func (p *ProviderEvent) Linked() bool {
	return p.EventID != 0
}
