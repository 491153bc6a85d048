package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/sharpline/odds-intel/pkg/types"
	"go.uber.org/zap"
)

// Store is the persistence surface the ingestor writes to.
type Store interface {
	// UpsertProviderEvent creates or refreshes a provider event record.
	UpsertProviderEvent(ctx context.Context, pe *types.ProviderEvent) error

	// InsertOffer stores an offer if its natural key is absent.
	// Returns false when the offer was already present.
	InsertOffer(ctx context.Context, offer *types.Offer) (bool, error)
}

// Ingestor runs raw provider payloads through selection normalization and
// into the offer store. Malformed quotes are counted and dropped, never fatal.
type Ingestor struct {
	store  Store
	logger *zap.Logger
}

// Report aggregates the outcome of one payload ingestion.
type Report struct {
	ProviderEvents int
	OffersStored   int
	OffersSkipped  int // duplicates
	Malformed      int // unrecognized labels, bad prices, unsupported markets
}

// NewIngestor creates a new payload ingestor.
func NewIngestor(store Store, logger *zap.Logger) *Ingestor {
	return &Ingestor{
		store:  store,
		logger: logger,
	}
}

// IngestPayload normalizes and stores one provider payload snapshot.
// Failures are scoped to the smallest unit: a bad quote drops that quote,
// a store error on one event aborts only that event's offers.
func (i *Ingestor) IngestPayload(ctx context.Context, provider string, events []RawEvent) (*Report, error) {
	report := &Report{}

	for idx := range events {
		raw := &events[idx]

		pe := &types.ProviderEvent{
			Provider:        provider,
			ProviderEventID: raw.ID,
			Sport:           raw.Sport,
			League:          raw.League,
			HomeTeam:        raw.HomeTeam,
			AwayTeam:        raw.AwayTeam,
			CommenceTime:    raw.CommenceTime,
			UpdatedAt:       raw.FetchedAt,
		}

		err := i.store.UpsertProviderEvent(ctx, pe)
		if err != nil {
			return report, fmt.Errorf("upsert provider event %s/%s: %w", provider, raw.ID, err)
		}
		report.ProviderEvents++
		ProviderEventsIngestedTotal.Inc()

		err = i.ingestOffers(ctx, provider, raw, report)
		if err != nil {
			return report, err
		}
	}

	i.logger.Info("payload-ingested",
		zap.String("provider", provider),
		zap.Int("provider-events", report.ProviderEvents),
		zap.Int("offers-stored", report.OffersStored),
		zap.Int("offers-skipped", report.OffersSkipped),
		zap.Int("malformed", report.Malformed))

	return report, nil
}

func (i *Ingestor) ingestOffers(ctx context.Context, provider string, raw *RawEvent, report *Report) error {
	for _, book := range raw.Bookmakers {
		updatedAt := book.LastUpdate
		if updatedAt.IsZero() {
			updatedAt = raw.FetchedAt
		}

		for _, market := range book.Markets {
			marketType, ok := NormalizeMarket(market.Key)
			if !ok {
				report.Malformed += len(market.Outcomes)
				OffersDroppedTotal.WithLabelValues("unsupported_market").Add(float64(len(market.Outcomes)))
				continue
			}

			for _, outcome := range market.Outcomes {
				offer, reason := i.buildOffer(provider, raw, book.Key, marketType, outcome, updatedAt)
				if offer == nil {
					report.Malformed++
					OffersDroppedTotal.WithLabelValues(reason).Inc()
					continue
				}

				inserted, err := i.store.InsertOffer(ctx, offer)
				if err != nil {
					return fmt.Errorf("insert offer %s: %w", offer.Key(), err)
				}
				if inserted {
					report.OffersStored++
					OffersStoredTotal.Inc()
				} else {
					report.OffersSkipped++
					OffersDuplicateTotal.Inc()
				}
			}
		}
	}

	return nil
}

// buildOffer validates one raw quote. A nil offer means the quote was
// malformed; the second return names the drop reason for metrics.
func (i *Ingestor) buildOffer(
	provider string,
	raw *RawEvent,
	bookKey string,
	market types.MarketType,
	outcome RawOutcome,
	updatedAt time.Time,
) (*types.Offer, string) {
	if !ValidPrice(outcome.Price) {
		i.logger.Debug("offer-dropped-invalid-price",
			zap.String("provider", provider),
			zap.String("event", raw.ID),
			zap.Float64("price", outcome.Price))
		return nil, "invalid_price"
	}

	selection, ok := NormalizeSelection(market, outcome.Name, raw.HomeTeam, raw.AwayTeam)
	if !ok {
		i.logger.Debug("offer-dropped-unrecognized-selection",
			zap.String("provider", provider),
			zap.String("event", raw.ID),
			zap.String("market", string(market)),
			zap.String("label", outcome.Name))
		return nil, "unrecognized_selection"
	}

	return &types.Offer{
		Provider:        provider,
		ProviderEventID: raw.ID,
		BookKey:         bookKey,
		Market:          market,
		Selection:       selection,
		Line:            outcome.Point,
		Price:           outcome.Price,
		Participant:     outcome.Description,
		SourceUpdatedAt: updatedAt,
	}, ""
}
