package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sharpline/odds-intel/internal/arbitrage"
	"github.com/sharpline/odds-intel/internal/devig"
	"github.com/sharpline/odds-intel/internal/ev"
	"github.com/sharpline/odds-intel/internal/resolver"
	"github.com/sharpline/odds-intel/internal/storage"
	"github.com/sharpline/odds-intel/pkg/types"
	"go.uber.org/zap"
)

// Pipeline runs one batch of the intelligence computation: resolution,
// devigging, arbitrage scanning and EV estimation over the current offer
// snapshot. All writes are idempotent, so overlapping or repeated runs are
// safe.
type Pipeline struct {
	store    storage.Store
	resolver *resolver.Resolver
	scanner  *arbitrage.Scanner
	evCalc   *ev.Calculator
	logger   *zap.Logger
}

// RunReport aggregates per-stage counts for one pipeline run.
type RunReport struct {
	Resolution *resolver.Report

	EligibleGroups  int
	Devigged        int
	DevigDuplicates int
	DevigSkipped    int

	Opportunities         int
	OpportunityDuplicates int

	EvEstimates  int
	EvDuplicates int
	EvSkipped    int
}

// New creates a new pipeline.
func New(
	store storage.Store,
	res *resolver.Resolver,
	scanner *arbitrage.Scanner,
	evCalc *ev.Calculator,
	logger *zap.Logger,
) *Pipeline {
	return &Pipeline{
		store:    store,
		resolver: res,
		scanner:  scanner,
		evCalc:   evCalc,
		logger:   logger,
	}
}

// Run executes one full batch. Store-connectivity failures abort the run;
// everything else is scoped to one group and counted.
func (p *Pipeline) Run(ctx context.Context) (*RunReport, error) {
	start := time.Now()
	report := &RunReport{}

	resolution, err := p.resolver.ResolveBatch(ctx)
	report.Resolution = resolution
	if err != nil {
		RunsTotal.WithLabelValues("error").Inc()
		return report, fmt.Errorf("resolution stage: %w", err)
	}

	offers, err := p.store.LinkedOffers(ctx)
	if err != nil {
		RunsTotal.WithLabelValues("error").Inc()
		return report, fmt.Errorf("load linked offers: %w", err)
	}

	groups := BuildTwoWayGroups(offers)
	report.EligibleGroups = len(groups)

	resultsByBoard, err := p.devigStage(ctx, groups, report)
	if err != nil {
		RunsTotal.WithLabelValues("error").Inc()
		return report, err
	}

	boards := BuildBoards(offers)

	err = p.arbitrageStage(ctx, boards, report)
	if err != nil {
		RunsTotal.WithLabelValues("error").Inc()
		return report, err
	}

	err = p.evStage(ctx, boards, resultsByBoard, report)
	if err != nil {
		RunsTotal.WithLabelValues("error").Inc()
		return report, err
	}

	RunsTotal.WithLabelValues("ok").Inc()
	RunDurationSeconds.Observe(time.Since(start).Seconds())

	p.logger.Info("pipeline-run-complete",
		zap.Int("events-linked", resolution.Linked),
		zap.Int("events-deferred", resolution.Deferred),
		zap.Int("eligible-groups", report.EligibleGroups),
		zap.Int("devigged", report.Devigged),
		zap.Int("opportunities", report.Opportunities),
		zap.Int("ev-estimates", report.EvEstimates),
		zap.Duration("elapsed", time.Since(start)))

	return report, nil
}

// devigStage computes and persists fair probabilities per eligible group,
// returning the results indexed by board for EV baselining.
func (p *Pipeline) devigStage(ctx context.Context, groups []OfferGroup, report *RunReport) (map[string][]*devig.Result, error) {
	resultsByBoard := make(map[string][]*devig.Result)

	for i := range groups {
		g := &groups[i]

		res, err := devig.Compute(g.EventID, g.A, g.B)
		if err != nil {
			if errors.Is(err, devig.ErrNoOverround) {
				report.DevigSkipped++
				continue
			}
			return nil, fmt.Errorf("devig group %s/%s/%s: %w", g.ProviderEventID, g.Market, g.BookKey, err)
		}

		inserted, err := p.store.InsertDevigResult(ctx, res)
		if err != nil {
			return nil, fmt.Errorf("store devig result %s: %w", res.Key(), err)
		}
		if inserted {
			report.Devigged++
		} else {
			report.DevigDuplicates++
		}

		boardKey := g.ProviderEventID + "|" + string(g.Market) + "|" + types.FormatLine(g.Line)
		resultsByBoard[boardKey] = append(resultsByBoard[boardKey], res)
	}

	return resultsByBoard, nil
}

// arbitrageStage scans each board's best prices for cross-book mispricing.
func (p *Pipeline) arbitrageStage(ctx context.Context, boards []*MarketBoard, report *RunReport) error {
	for _, board := range boards {
		opp, found := p.scanner.Scan(
			board.EventID, board.Provider, board.ProviderEventID,
			board.Market, board.Line, board.Offers,
		)
		if !found {
			continue
		}

		inserted, err := p.store.InsertOpportunity(ctx, opp)
		if err != nil {
			return fmt.Errorf("store opportunity %s: %w", opp.Key(), err)
		}
		if inserted {
			report.Opportunities++
		} else {
			report.OpportunityDuplicates++
		}
	}

	return nil
}

// evStage estimates the expected value of every board offer against the
// board's true-probability baseline.
func (p *Pipeline) evStage(ctx context.Context, boards []*MarketBoard, resultsByBoard map[string][]*devig.Result, report *RunReport) error {
	for _, board := range boards {
		results := resultsByBoard[board.boardKey()]
		if len(results) == 0 {
			report.EvSkipped += len(board.Offers)
			continue
		}

		for _, offer := range board.Offers {
			prob, ok := p.evCalc.Baseline(results, offer.Selection)
			if !ok {
				report.EvSkipped++
				continue
			}

			est, ok := p.evCalc.ForOffer(offer, prob)
			if !ok {
				report.EvSkipped++
				continue
			}

			inserted, err := p.store.InsertEvEstimate(ctx, est)
			if err != nil {
				return fmt.Errorf("store ev estimate %s: %w", est.Key(), err)
			}
			if inserted {
				report.EvEstimates++
			} else {
				report.EvDuplicates++
			}
		}
	}

	return nil
}
