package arbitrage

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sharpline/odds-intel/pkg/types"
)

// Opportunity is a detected cross-book mispricing for one two-outcome market:
// the best price per selection comes from different bookmakers and the
// combined implied probability is under 1.0. Write-once per
// (event, market, line, selection pair, book pair).
type Opportunity struct {
	ID              string
	EventID         int64
	Provider        string
	ProviderEventID string
	Market          types.MarketType
	Line            *float64
	SelectionA      types.Selection
	SelectionB      types.Selection
	BookA           string
	BookB           string
	OddsA           float64
	OddsB           float64
	ArbPercentage   float64
	TotalStake      float64
	StakeA          float64
	StakeB          float64
	DetectedAt      time.Time
}

// NewOpportunity computes the guaranteed-profit stake split for the two best
// prices of a mispriced market. The split is proportional to each side's
// implied probability, so the stakes sum to totalStake and both outcomes pay
// the same profit.
func NewOpportunity(
	eventID int64,
	provider string,
	providerEventID string,
	market types.MarketType,
	line *float64,
	selectionA, selectionB types.Selection,
	bookA, bookB string,
	oddsA, oddsB float64,
	totalStake float64,
) *Opportunity {
	invA := 1.0 / oddsA
	invB := 1.0 / oddsB
	invSum := invA + invB

	return &Opportunity{
		ID:              uuid.New().String(),
		EventID:         eventID,
		Provider:        provider,
		ProviderEventID: providerEventID,
		Market:          market,
		Line:            line,
		SelectionA:      selectionA,
		SelectionB:      selectionB,
		BookA:           bookA,
		BookB:           bookB,
		OddsA:           oddsA,
		OddsB:           oddsB,
		ArbPercentage:   1.0 - invSum,
		TotalStake:      totalStake,
		StakeA:          totalStake * (invA / invSum),
		StakeB:          totalStake * (invB / invSum),
		DetectedAt:      time.Now(),
	}
}

// Key returns the opportunity's natural uniqueness key.
func (o *Opportunity) Key() string {
	return fmt.Sprintf("%d|%s|%s|%s|%s|%s|%s",
		o.EventID, o.Market, types.FormatLine(o.Line),
		o.SelectionA, o.SelectionB, o.BookA, o.BookB)
}

// String returns a human-readable representation of the opportunity.
func (o *Opportunity) String() string {
	return fmt.Sprintf(
		"Opportunity[%s] event=%d %s %s@%.2f(%s) / %s@%.2f(%s) edge=%.2f%% stakes=%.2f/%.2f",
		o.ID[:8],
		o.EventID,
		o.Market,
		o.SelectionA, o.OddsA, o.BookA,
		o.SelectionB, o.OddsB, o.BookB,
		o.ArbPercentage*100,
		o.StakeA, o.StakeB,
	)
}
