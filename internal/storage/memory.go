package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sharpline/odds-intel/internal/arbitrage"
	"github.com/sharpline/odds-intel/internal/devig"
	"github.com/sharpline/odds-intel/internal/ev"
	"github.com/sharpline/odds-intel/pkg/types"
	"go.uber.org/zap"
)

// MemoryStore implements Store in memory. It backs local runs without
// Postgres and the pipeline tests; it enforces the same natural keys.
type MemoryStore struct {
	mu sync.Mutex

	providerEvents map[string]*types.ProviderEvent
	events         map[string]*types.Event // keyed by external_source|external_id
	eventSeq       int64
	offers         map[string]*types.Offer
	devigResults   map[string]*devig.Result
	opportunities  map[string]*arbitrage.Opportunity
	evEstimates    map[string]*ev.Estimate

	logger *zap.Logger
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		providerEvents: make(map[string]*types.ProviderEvent),
		events:         make(map[string]*types.Event),
		offers:         make(map[string]*types.Offer),
		devigResults:   make(map[string]*devig.Result),
		opportunities:  make(map[string]*arbitrage.Opportunity),
		evEstimates:    make(map[string]*ev.Estimate),
		logger:         logger,
	}
}

func providerEventKey(provider, providerEventID string) string {
	return provider + "|" + providerEventID
}

func externalKey(source, id string) string {
	return source + "|" + id
}

// UpsertProviderEvent creates or refreshes a provider event. An existing
// canonical link survives the refresh.
func (m *MemoryStore) UpsertProviderEvent(_ context.Context, pe *types.ProviderEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := providerEventKey(pe.Provider, pe.ProviderEventID)
	stored := *pe
	if existing, ok := m.providerEvents[key]; ok {
		stored.EventID = existing.EventID
	}
	m.providerEvents[key] = &stored

	return nil
}

// InsertOffer stores an offer if its natural key is absent.
func (m *MemoryStore) InsertOffer(_ context.Context, offer *types.Offer) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := offer.Key()
	if _, ok := m.offers[key]; ok {
		return false, nil
	}

	stored := *offer
	m.offers[key] = &stored
	return true, nil
}

// UnlinkedProviderEvents returns unlinked provider events oldest first.
func (m *MemoryStore) UnlinkedProviderEvents(_ context.Context, limit int) ([]*types.ProviderEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var pending []*types.ProviderEvent
	for _, pe := range m.providerEvents {
		if pe.EventID == 0 && !pe.CommenceTime.IsZero() {
			copied := *pe
			pending = append(pending, &copied)
		}
	}

	sort.Slice(pending, func(i, j int) bool {
		if !pending[i].CommenceTime.Equal(pending[j].CommenceTime) {
			return pending[i].CommenceTime.Before(pending[j].CommenceTime)
		}
		return providerEventKey(pending[i].Provider, pending[i].ProviderEventID) <
			providerEventKey(pending[j].Provider, pending[j].ProviderEventID)
	})

	if len(pending) > limit {
		pending = pending[:limit]
	}

	return pending, nil
}

// UpsertEventByExternalID inserts or reuses a canonical event.
func (m *MemoryStore) UpsertEventByExternalID(_ context.Context, ev *types.Event, overwrite bool) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := externalKey(ev.ExternalSource, ev.ExternalID)
	if existing, ok := m.events[key]; ok {
		if overwrite {
			existing.League = ev.League
			existing.HomeTeam = ev.HomeTeam
			existing.AwayTeam = ev.AwayTeam
			existing.CommenceTime = ev.CommenceTime
		}
		return existing.ID, nil
	}

	m.eventSeq++
	stored := *ev
	stored.ID = m.eventSeq
	m.events[key] = &stored

	return stored.ID, nil
}

// EventsInWindow returns canonical events inside [from, to] for one sport.
func (m *MemoryStore) EventsInWindow(_ context.Context, sport string, from, to time.Time) ([]*types.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []*types.Event
	for _, ev := range m.events {
		if ev.Sport != sport {
			continue
		}
		if ev.CommenceTime.Before(from) || ev.CommenceTime.After(to) {
			continue
		}
		copied := *ev
		matched = append(matched, &copied)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CommenceTime.Equal(matched[j].CommenceTime) {
			return matched[i].CommenceTime.Before(matched[j].CommenceTime)
		}
		return matched[i].ID < matched[j].ID
	})

	return matched, nil
}

// LinkProviderEvent writes the canonical event id onto the provider event
// and its unlinked offers.
func (m *MemoryStore) LinkProviderEvent(_ context.Context, provider, providerEventID string, eventID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if pe, ok := m.providerEvents[providerEventKey(provider, providerEventID)]; ok {
		pe.EventID = eventID
	}

	for _, offer := range m.offers {
		if offer.Provider == provider && offer.ProviderEventID == providerEventID && offer.EventID == 0 {
			offer.EventID = eventID
		}
	}

	return nil
}

// LinkedOffers returns all linked offers in deterministic processing order.
func (m *MemoryStore) LinkedOffers(_ context.Context) ([]*types.Offer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var linked []*types.Offer
	for _, offer := range m.offers {
		if offer.EventID != 0 {
			copied := *offer
			linked = append(linked, &copied)
		}
	}

	sort.Slice(linked, func(i, j int) bool {
		a, b := linked[i], linked[j]
		if a.ProviderEventID != b.ProviderEventID {
			return a.ProviderEventID < b.ProviderEventID
		}
		if a.Market != b.Market {
			return a.Market < b.Market
		}
		la, lb := types.FormatLine(a.Line), types.FormatLine(b.Line)
		if la != lb {
			return la < lb
		}
		if a.BookKey != b.BookKey {
			return a.BookKey < b.BookKey
		}
		return a.Selection < b.Selection
	})

	return linked, nil
}

// InsertDevigResult stores a devig result if absent.
func (m *MemoryStore) InsertDevigResult(_ context.Context, res *devig.Result) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := res.Key()
	if _, ok := m.devigResults[key]; ok {
		return false, nil
	}

	stored := *res
	m.devigResults[key] = &stored
	return true, nil
}

// InsertOpportunity stores an arbitrage opportunity if absent.
func (m *MemoryStore) InsertOpportunity(_ context.Context, opp *arbitrage.Opportunity) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := opp.Key()
	if _, ok := m.opportunities[key]; ok {
		return false, nil
	}

	stored := *opp
	m.opportunities[key] = &stored
	return true, nil
}

// InsertEvEstimate stores an EV estimate if absent.
func (m *MemoryStore) InsertEvEstimate(_ context.Context, est *ev.Estimate) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := est.Key()
	if _, ok := m.evEstimates[key]; ok {
		return false, nil
	}

	stored := *est
	m.evEstimates[key] = &stored
	return true, nil
}

// ListOpportunities returns the most recently detected opportunities.
func (m *MemoryStore) ListOpportunities(_ context.Context, limit int) ([]*arbitrage.Opportunity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var opps []*arbitrage.Opportunity
	for _, opp := range m.opportunities {
		copied := *opp
		opps = append(opps, &copied)
	}

	sort.Slice(opps, func(i, j int) bool {
		return opps[i].DetectedAt.After(opps[j].DetectedAt)
	})

	if len(opps) > limit {
		opps = opps[:limit]
	}

	return opps, nil
}

// DevigResultCount reports stored devig results. Test helper.
func (m *MemoryStore) DevigResultCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.devigResults)
}

// OpportunityCount reports stored opportunities. Test helper.
func (m *MemoryStore) OpportunityCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.opportunities)
}

// EvEstimateCount reports stored EV estimates. Test helper.
func (m *MemoryStore) EvEstimateCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.evEstimates)
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error {
	if m.logger != nil {
		m.logger.Info("closing-memory-store")
	}
	return nil
}
