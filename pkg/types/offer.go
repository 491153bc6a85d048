package types

import (
	"fmt"
	"time"
)

// MarketType identifies a betting market kind.
type MarketType string

const (
	MarketH2H     MarketType = "h2h"
	MarketSpreads MarketType = "spreads"
	MarketTotals  MarketType = "totals"
)

// Selection is a canonical selection code within a market.
type Selection string

const (
	SelectionHome  Selection = "HOME"
	SelectionAway  Selection = "AWAY"
	SelectionDraw  Selection = "DRAW"
	SelectionOver  Selection = "OVER"
	SelectionUnder Selection = "UNDER"
)

// Offer is one bookmaker's quoted decimal price for one selection of one
// market for one provider event. Offers are immutable once stored; the natural
// key below makes re-ingestion a no-op while preserving distinct
// price-over-time observations.
type Offer struct {
	Provider        string
	ProviderEventID string
	BookKey         string
	Market          MarketType
	Selection       Selection
	Line            *float64
	Price           float64
	Participant     string
	SourceUpdatedAt time.Time
	EventID         int64
}

// Key returns the offer's natural uniqueness key: distinct prices over time
// for the same selection are kept, exact duplicates are not.
func (o *Offer) Key() string {
	return fmt.Sprintf("%s|%s|%s|%s|%s|%s|%.4f|%d",
		o.Provider, o.ProviderEventID, o.BookKey, o.Market, o.Selection,
		FormatLine(o.Line), o.Price, o.SourceUpdatedAt.UTC().UnixNano())
}

// FormatLine renders an optional line value for use in keys. Nil lines (h2h
// markets) render as the empty string so they collide only with other nil lines.
func FormatLine(line *float64) string {
	if line == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *line)
}
