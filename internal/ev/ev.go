package ev

import (
	"fmt"
	"strconv"
	"time"

	"github.com/sharpline/odds-intel/internal/devig"
	"github.com/sharpline/odds-intel/pkg/types"
	"go.uber.org/zap"
)

// Estimate is the expected monetary value of betting one offer at an assumed
// true probability. Write-once per (event, bookmaker, market, selection,
// odds, stake).
type Estimate struct {
	EventID          int64
	Provider         string
	ProviderEventID  string
	BookKey          string
	Market           types.MarketType
	Line             *float64
	Selection        types.Selection
	Odds             float64
	Stake            float64
	TrueProbability  float64
	ExpectedValue    float64
	ExpectedValuePct float64
	SourceUpdatedAt  time.Time
}

// Key returns the estimate's natural uniqueness key. Odds render at full
// float precision so quotes differing at any decimal place stay distinct
// rows, like the offer key they derive from.
func (e *Estimate) Key() string {
	return fmt.Sprintf("%d|%s|%s|%s|%s|%.2f",
		e.EventID, e.BookKey, e.Market, e.Selection,
		strconv.FormatFloat(e.Odds, 'f', -1, 64), e.Stake)
}

// Expected computes the expected value of a bet: probability-weighted win
// profit minus the probability-weighted stake loss.
func Expected(trueProb, price, stake float64) (expectedValue, expectedValuePct float64) {
	winProfit := stake * (price - 1.0)
	expectedValue = trueProb*winProfit - (1.0-trueProb)*stake
	return expectedValue, expectedValue / stake
}

// Calculator computes EV estimates against a true-probability baseline.
type Calculator struct {
	config Config
	logger *zap.Logger
}

// Config holds calculator configuration.
type Config struct {
	Stake          float64
	ReferenceBooks []string
	Logger         *zap.Logger
}

// NewCalculator creates a new EV calculator.
func NewCalculator(cfg Config) *Calculator {
	return &Calculator{
		config: cfg,
		logger: cfg.Logger,
	}
}

// Baseline picks the assumed true probability for one selection from the
// devig results of its (event, market, line): the first reference bookmaker
// with a result wins; otherwise the arithmetic mean across all bookmakers.
// Returns false when no devig result covers the selection.
func (c *Calculator) Baseline(results []*devig.Result, sel types.Selection) (float64, bool) {
	for _, ref := range c.config.ReferenceBooks {
		for _, res := range results {
			if res.BookKey != ref {
				continue
			}
			if prob, ok := res.FairProbFor(sel); ok {
				return prob, true
			}
		}
	}

	sum := 0.0
	count := 0
	for _, res := range results {
		if prob, ok := res.FairProbFor(sel); ok {
			sum += prob
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}

// ForOffer computes one EV estimate. Offers whose baseline probability falls
// outside (0, 1) carry no computable edge and are skipped.
func (c *Calculator) ForOffer(offer *types.Offer, trueProb float64) (*Estimate, bool) {
	if trueProb <= 0 || trueProb >= 1 {
		EstimatesSkippedTotal.WithLabelValues("probability_out_of_range").Inc()
		return nil, false
	}

	expectedValue, expectedValuePct := Expected(trueProb, offer.Price, c.config.Stake)

	EstimatesComputedTotal.Inc()
	ExpectedValuePct.Observe(expectedValuePct)

	return &Estimate{
		EventID:          offer.EventID,
		Provider:         offer.Provider,
		ProviderEventID:  offer.ProviderEventID,
		BookKey:          offer.BookKey,
		Market:           offer.Market,
		Line:             offer.Line,
		Selection:        offer.Selection,
		Odds:             offer.Price,
		Stake:            c.config.Stake,
		TrueProbability:  trueProb,
		ExpectedValue:    expectedValue,
		ExpectedValuePct: expectedValuePct,
		SourceUpdatedAt:  offer.SourceUpdatedAt,
	}, true
}
