package resolver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EventsLinkedTotal tracks provider events linked to canonical events.
	EventsLinkedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "odds_intel_provider_events_linked_total",
		Help: "Total number of provider events linked to a canonical event",
	})

	// EventsDeferredTotal tracks provider events left unlinked for a later run.
	EventsDeferredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "odds_intel_provider_events_deferred_total",
			Help: "Total number of provider events deferred to a later resolution run",
		},
		[]string{"reason"},
	)

	// FuzzyMatchScore tracks the winning fixture match scores.
	FuzzyMatchScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "odds_intel_fixture_match_score",
		Help:    "Score of accepted fuzzy fixture matches",
		Buckets: []float64{40, 55, 70, 80, 100},
	})
)
