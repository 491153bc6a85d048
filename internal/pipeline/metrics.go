package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RunsTotal tracks pipeline runs by outcome.
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "odds_intel_pipeline_runs_total",
			Help: "Total number of pipeline runs",
		},
		[]string{"outcome"},
	)

	// RunDurationSeconds tracks full pipeline run latency.
	RunDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "odds_intel_pipeline_run_duration_seconds",
		Help:    "Duration of one full pipeline run",
		Buckets: prometheus.DefBuckets,
	})
)
