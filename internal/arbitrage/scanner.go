package arbitrage

import (
	"github.com/sharpline/odds-intel/pkg/types"
	"go.uber.org/zap"
)

// Scanner detects two-way arbitrage across bookmakers.
type Scanner struct {
	config Config
	logger *zap.Logger
}

// Config holds scanner configuration.
type Config struct {
	TotalStake float64
	Logger     *zap.Logger
}

// NewScanner creates a new arbitrage scanner.
func NewScanner(cfg Config) *Scanner {
	return &Scanner{
		config: cfg,
		logger: cfg.Logger,
	}
}

// Scan takes every offer for one (event, market, line) across all bookmakers,
// keeps the single best price per selection, and reports an opportunity iff
// the combined implied probability is under 1.0. The offers must all share
// the same market and line; selections outside the expected two are the
// caller's responsibility to exclude.
func (s *Scanner) Scan(
	eventID int64,
	provider string,
	providerEventID string,
	market types.MarketType,
	line *float64,
	offers []*types.Offer,
) (*Opportunity, bool) {
	best := make(map[types.Selection]*types.Offer)
	for _, offer := range offers {
		current, ok := best[offer.Selection]
		if !ok || offer.Price > current.Price {
			best[offer.Selection] = offer
		}
	}

	if len(best) != 2 {
		OpportunitiesRejectedTotal.WithLabelValues("one_sided_market").Inc()
		return nil, false
	}

	selections := make([]types.Selection, 0, 2)
	for sel := range best {
		selections = append(selections, sel)
	}
	// Deterministic A/B ordering regardless of map iteration.
	if selections[1] < selections[0] {
		selections[0], selections[1] = selections[1], selections[0]
	}

	offerA := best[selections[0]]
	offerB := best[selections[1]]

	invSum := 1.0/offerA.Price + 1.0/offerB.Price
	if invSum >= 1.0 {
		OpportunitiesRejectedTotal.WithLabelValues("no_edge").Inc()
		return nil, false
	}

	opp := NewOpportunity(
		eventID,
		provider,
		providerEventID,
		market,
		line,
		offerA.Selection, offerB.Selection,
		offerA.BookKey, offerB.BookKey,
		offerA.Price, offerB.Price,
		s.config.TotalStake,
	)

	OpportunitiesDetectedTotal.Inc()
	OpportunityEdgePct.Observe(opp.ArbPercentage * 100)

	s.logger.Info("arbitrage-opportunity-detected",
		zap.String("opportunity-id", opp.ID),
		zap.Int64("event-id", eventID),
		zap.String("market", string(market)),
		zap.Float64("edge-pct", opp.ArbPercentage*100),
		zap.String("book-a", opp.BookA),
		zap.String("book-b", opp.BookB))

	return opp, true
}
