package ingest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProviderEventsIngestedTotal tracks provider events upserted during ingestion.
	ProviderEventsIngestedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "odds_intel_provider_events_ingested_total",
		Help: "Total number of provider events created or refreshed",
	})

	// OffersStoredTotal tracks offers written to the offer store.
	OffersStoredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "odds_intel_offers_stored_total",
		Help: "Total number of offers stored",
	})

	// OffersDuplicateTotal tracks re-ingested offers skipped as duplicates.
	OffersDuplicateTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "odds_intel_offers_duplicate_total",
		Help: "Total number of offers skipped because they were already stored",
	})

	// OffersDroppedTotal tracks malformed quotes dropped at normalization.
	OffersDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "odds_intel_offers_dropped_total",
			Help: "Total number of quotes dropped during normalization",
		},
		[]string{"reason"},
	)
)
