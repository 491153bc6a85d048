package arbitrage

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OpportunitiesDetectedTotal tracks arbitrage opportunities detected.
	OpportunitiesDetectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "odds_intel_opportunities_detected_total",
		Help: "Total number of arbitrage opportunities detected",
	})

	// OpportunitiesRejectedTotal tracks scanned markets rejected by reason.
	OpportunitiesRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "odds_intel_opportunities_rejected_total",
			Help: "Total number of scanned markets with no arbitrage opportunity",
		},
		[]string{"reason"},
	)

	// OpportunityEdgePct tracks detected edges in percent.
	OpportunityEdgePct = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "odds_intel_opportunity_edge_pct",
		Help:    "Arbitrage opportunity edge in percent",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20},
	})
)
