package ingest

import (
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-json"
)

// RawEvent is one sporting fixture as delivered by a provider fetcher,
// together with every bookmaker quote attached to it. FetchedAt is the
// fallback update time for offers whose bookmaker omits one.
type RawEvent struct {
	ID           string         `json:"id"`
	Sport        string         `json:"sport_key"`
	League       string         `json:"sport_title"`
	HomeTeam     string         `json:"home_team"`
	AwayTeam     string         `json:"away_team"`
	CommenceTime time.Time      `json:"commence_time"`
	Bookmakers   []RawBookmaker `json:"bookmakers"`
	FetchedAt    time.Time      `json:"fetched_at"`
}

// RawBookmaker is one bookmaker's markets for a raw event.
type RawBookmaker struct {
	Key        string      `json:"key"`
	LastUpdate time.Time   `json:"last_update"`
	Markets    []RawMarket `json:"markets"`
}

// RawMarket is one market's outcome list as quoted by a bookmaker.
type RawMarket struct {
	Key      string       `json:"key"`
	Outcomes []RawOutcome `json:"outcomes"`
}

// RawOutcome is a single quoted outcome. Point carries the spread or total
// line where the market has one.
type RawOutcome struct {
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Point       *float64 `json:"point,omitempty"`
	Description string   `json:"description,omitempty"`
}

// DecodePayload decodes a JSON array of raw provider events.
func DecodePayload(r io.Reader) ([]RawEvent, error) {
	var events []RawEvent
	err := json.NewDecoder(r).Decode(&events)
	if err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return events, nil
}
