package storage

import (
	"context"
	"time"

	"github.com/sharpline/odds-intel/internal/arbitrage"
	"github.com/sharpline/odds-intel/internal/devig"
	"github.com/sharpline/odds-intel/internal/ev"
	"github.com/sharpline/odds-intel/pkg/types"
)

// Store is the persistence surface for the whole pipeline. Every insert is
// keyed by the record's natural key and is an idempotent no-op on conflict,
// so concurrent or repeated runs over the same window are safe.
type Store interface {
	// UpsertProviderEvent creates or refreshes a provider event. The
	// canonical-event link is never cleared by an upsert.
	UpsertProviderEvent(ctx context.Context, pe *types.ProviderEvent) error

	// InsertOffer stores an offer if absent. Returns false on duplicate.
	InsertOffer(ctx context.Context, offer *types.Offer) (bool, error)

	// UnlinkedProviderEvents returns unlinked provider events with a known
	// start time, oldest commence time first, up to limit.
	UnlinkedProviderEvents(ctx context.Context, limit int) ([]*types.ProviderEvent, error)

	// UpsertEventByExternalID inserts or reuses a canonical event keyed by
	// (external_source, external_id), returning its id. With overwrite set,
	// mutable fixture fields are refreshed on conflict.
	UpsertEventByExternalID(ctx context.Context, ev *types.Event, overwrite bool) (int64, error)

	// EventsInWindow returns canonical events for a sport with commence time
	// inside [from, to], both bounds inclusive.
	EventsInWindow(ctx context.Context, sport string, from, to time.Time) ([]*types.Event, error)

	// LinkProviderEvent writes the canonical event id onto the provider
	// event and onto its offers that lack one.
	LinkProviderEvent(ctx context.Context, provider, providerEventID string, eventID int64) error

	// LinkedOffers returns every offer carrying a canonical event link,
	// ordered by (provider_event_id, market, line, book_key).
	LinkedOffers(ctx context.Context) ([]*types.Offer, error)

	// InsertDevigResult stores a devig result if absent. False on duplicate.
	InsertDevigResult(ctx context.Context, res *devig.Result) (bool, error)

	// InsertOpportunity stores an arbitrage opportunity if absent.
	InsertOpportunity(ctx context.Context, opp *arbitrage.Opportunity) (bool, error)

	// InsertEvEstimate stores an EV estimate if absent. False on duplicate.
	InsertEvEstimate(ctx context.Context, est *ev.Estimate) (bool, error)

	// ListOpportunities returns the most recently detected opportunities.
	ListOpportunities(ctx context.Context, limit int) ([]*arbitrage.Opportunity, error)

	// Close closes the storage connection.
	Close() error
}
