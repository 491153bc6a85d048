package devig

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GroupsDevigedTotal tracks market groups devigged successfully.
	GroupsDevigedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "odds_intel_groups_devigged_total",
		Help: "Total number of two-outcome market groups devigged",
	})

	// GroupsSkippedTotal tracks groups skipped by reason.
	GroupsSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "odds_intel_devig_groups_skipped_total",
			Help: "Total number of market groups skipped during devigging",
		},
		[]string{"reason"},
	)

	// VigObserved tracks the bookmaker margin seen per devigged group.
	VigObserved = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "odds_intel_vig_observed",
		Help:    "Bookmaker vig (overround minus one) per devigged market group",
		Buckets: []float64{0.005, 0.01, 0.02, 0.03, 0.05, 0.08, 0.12, 0.2},
	})
)
