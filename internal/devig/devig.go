package devig

import (
	"errors"
	"fmt"
	"time"

	"github.com/sharpline/odds-intel/pkg/types"
)

// ErrNoOverround is returned when the implied probabilities of a price pair
// do not sum to a positive value. Cannot occur for validated prices, checked
// defensively.
var ErrNoOverround = errors.New("devig: implied probability sum is not positive")

// Result is one computed fair-probability pair for a two-outcome market
// observed at one bookmaker. FairProbA + FairProbB == 1.0 by construction.
// Write-once per (event, bookmaker, market, line).
type Result struct {
	EventID         int64
	Provider        string
	ProviderEventID string
	BookKey         string
	Market          types.MarketType
	Line            *float64
	OutcomeA        types.Selection
	OutcomeB        types.Selection
	OddsA           float64
	OddsB           float64
	FairProbA       float64
	FairProbB       float64
	Vig             float64
	SourceUpdatedAt time.Time
}

// Key returns the result's natural uniqueness key.
func (r *Result) Key() string {
	return fmt.Sprintf("%d|%s|%s|%s", r.EventID, r.BookKey, r.Market, types.FormatLine(r.Line))
}

// FairProbFor returns the fair probability computed for one of the result's
// two selections.
func (r *Result) FairProbFor(sel types.Selection) (float64, bool) {
	switch sel {
	case r.OutcomeA:
		return r.FairProbA, true
	case r.OutcomeB:
		return r.FairProbB, true
	default:
		return 0, false
	}
}

// Fair removes the bookmaker margin from a two-outcome price pair using the
// multiplicative method: implied probabilities are normalized by the
// overround so the fair pair sums to exactly 1.0. Vig is overround minus one.
func Fair(priceA, priceB float64) (fairA, fairB, vig float64, err error) {
	impliedA := 1.0 / priceA
	impliedB := 1.0 / priceB
	overround := impliedA + impliedB

	if overround <= 0 {
		return 0, 0, 0, ErrNoOverround
	}

	return impliedA / overround, impliedB / overround, overround - 1.0, nil
}

// Compute devigs the two offers of one eligible market group. The offers must
// already be in deterministic selection order; their prices are validated at
// ingestion, so a non-positive overround is a defensive skip, not a failure.
func Compute(eventID int64, a, b *types.Offer) (*Result, error) {
	fairA, fairB, vig, err := Fair(a.Price, b.Price)
	if err != nil {
		GroupsSkippedTotal.WithLabelValues("no_overround").Inc()
		return nil, err
	}

	updatedAt := a.SourceUpdatedAt
	if b.SourceUpdatedAt.After(updatedAt) {
		updatedAt = b.SourceUpdatedAt
	}

	GroupsDevigedTotal.Inc()
	VigObserved.Observe(vig)

	return &Result{
		EventID:         eventID,
		Provider:        a.Provider,
		ProviderEventID: a.ProviderEventID,
		BookKey:         a.BookKey,
		Market:          a.Market,
		Line:            a.Line,
		OutcomeA:        a.Selection,
		OutcomeB:        b.Selection,
		OddsA:           a.Price,
		OddsB:           b.Price,
		FairProbA:       fairA,
		FairProbB:       fairB,
		Vig:             vig,
		SourceUpdatedAt: updatedAt,
	}, nil
}
