package ev

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EstimatesComputedTotal tracks EV estimates computed.
	EstimatesComputedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "odds_intel_ev_estimates_computed_total",
		Help: "Total number of EV estimates computed",
	})

	// EstimatesSkippedTotal tracks offers skipped by reason.
	EstimatesSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "odds_intel_ev_estimates_skipped_total",
			Help: "Total number of offers skipped during EV computation",
		},
		[]string{"reason"},
	)

	// ExpectedValuePct tracks computed EV as a fraction of stake.
	ExpectedValuePct = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "odds_intel_ev_pct",
		Help:    "Expected value as a fraction of stake",
		Buckets: []float64{-0.2, -0.1, -0.05, -0.02, 0, 0.02, 0.05, 0.1, 0.2, 0.5},
	})
)
