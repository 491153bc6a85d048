package resolver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sharpline/odds-intel/pkg/cache"
	"github.com/sharpline/odds-intel/pkg/types"
	"go.uber.org/zap"
)

// SportBucket is the coarse sport classification driving resolution policy.
type SportBucket string

const (
	BucketBasketball SportBucket = "basketball"
	BucketFootball   SportBucket = "football"
)

// ProviderRole selects how provider fixtures reconcile with canonical events
// for one sport bucket.
type ProviderRole int

const (
	// RoleAuthoritative providers own fixture creation for their bucket:
	// the upsert refreshes league, teams and start time on conflict.
	RoleAuthoritative ProviderRole = iota

	// RoleMatchOnly providers must reconcile against independently-sourced
	// fixtures; they only fill in fixtures the primary source is missing.
	RoleMatchOnly
)

// Store is the persistence surface the resolver reads and writes.
type Store interface {
	// UnlinkedProviderEvents returns provider events with a known start time
	// and no canonical link, oldest commence time first, up to limit.
	UnlinkedProviderEvents(ctx context.Context, limit int) ([]*types.ProviderEvent, error)

	// UpsertEventByExternalID inserts or reuses a canonical event keyed by
	// (external_source, external_id). With overwrite set, mutable fixture
	// fields are refreshed on conflict; otherwise the existing row wins.
	// Returns the canonical event id either way.
	UpsertEventByExternalID(ctx context.Context, ev *types.Event, overwrite bool) (int64, error)

	// EventsInWindow returns canonical events for a sport with commence time
	// inside [from, to], both bounds inclusive.
	EventsInWindow(ctx context.Context, sport string, from, to time.Time) ([]*types.Event, error)

	// LinkProviderEvent writes the canonical event id onto the provider event
	// and onto every stored offer of that provider event that lacks one.
	LinkProviderEvent(ctx context.Context, provider, providerEventID string, eventID int64) error
}

// Config holds resolver configuration.
type Config struct {
	Window     time.Duration
	BatchLimit int
	Roles      map[SportBucket]ProviderRole
	Logger     *zap.Logger
}

// DefaultRoles is the stock bucket policy: no independent basketball fixture
// feed exists, so odds providers are authoritative there; football fixtures
// come from a primary source and providers only match or fill gaps.
func DefaultRoles() map[SportBucket]ProviderRole {
	return map[SportBucket]ProviderRole{
		BucketBasketball: RoleAuthoritative,
		BucketFootball:   RoleMatchOnly,
	}
}

// Resolver links provider events to canonical events.
type Resolver struct {
	store  Store
	cache  cache.Cache
	config Config
	logger *zap.Logger
}

// Report aggregates the outcome of one resolution batch.
type Report struct {
	Processed int
	Linked    int
	Matched   int // linked via fuzzy fixture match
	Deferred  int // unclassifiable sport, retried next run
}

// New creates a new entity resolver. The cache is optional and only avoids
// repeated canonical-event lookups within and across batches.
func New(store Store, eventCache cache.Cache, cfg Config) *Resolver {
	if cfg.Roles == nil {
		cfg.Roles = DefaultRoles()
	}
	return &Resolver{
		store:  store,
		cache:  eventCache,
		config: cfg,
		logger: cfg.Logger,
	}
}

// ClassifySport maps a provider's sport/league tags onto a sport bucket.
func ClassifySport(sport, league string) (SportBucket, bool) {
	tag := strings.ToLower(sport + " " + league)
	switch {
	case strings.Contains(tag, "basketball"), strings.Contains(tag, "nba"):
		return BucketBasketball, true
	case strings.Contains(tag, "soccer"), strings.Contains(tag, "football"):
		return BucketFootball, true
	default:
		return "", false
	}
}

// ResolveBatch runs the unlinked → linked state machine over one batch of
// provider events, oldest first. An unclassifiable event is deferred, not an
// error; a store failure aborts the batch.
func (r *Resolver) ResolveBatch(ctx context.Context) (*Report, error) {
	report := &Report{}

	pending, err := r.store.UnlinkedProviderEvents(ctx, r.config.BatchLimit)
	if err != nil {
		return report, fmt.Errorf("load unlinked provider events: %w", err)
	}

	for _, pe := range pending {
		report.Processed++

		bucket, ok := ClassifySport(pe.Sport, pe.League)
		if !ok {
			report.Deferred++
			EventsDeferredTotal.WithLabelValues("unclassified_sport").Inc()
			r.logger.Debug("provider-event-deferred",
				zap.String("provider", pe.Provider),
				zap.String("provider-event-id", pe.ProviderEventID),
				zap.String("sport", pe.Sport))
			continue
		}

		eventID, matched, err := r.resolveEvent(ctx, pe, bucket)
		if err != nil {
			return report, fmt.Errorf("resolve %s/%s: %w", pe.Provider, pe.ProviderEventID, err)
		}

		err = r.store.LinkProviderEvent(ctx, pe.Provider, pe.ProviderEventID, eventID)
		if err != nil {
			return report, fmt.Errorf("link %s/%s: %w", pe.Provider, pe.ProviderEventID, err)
		}

		report.Linked++
		if matched {
			report.Matched++
		}
		EventsLinkedTotal.Inc()
	}

	r.logger.Info("resolution-batch-complete",
		zap.Int("processed", report.Processed),
		zap.Int("linked", report.Linked),
		zap.Int("fuzzy-matched", report.Matched),
		zap.Int("deferred", report.Deferred))

	return report, nil
}

// resolveEvent establishes (or reuses) the canonical event id for one
// provider event. The second return reports whether the link came from a
// fuzzy fixture match rather than the external-id upsert.
func (r *Resolver) resolveEvent(ctx context.Context, pe *types.ProviderEvent, bucket SportBucket) (int64, bool, error) {
	cacheKey := eventCacheKey(pe.Provider, pe.ProviderEventID)
	if r.cache != nil {
		if cached, found := r.cache.Get(cacheKey); found {
			if id, ok := cached.(int64); ok {
				return id, false, nil
			}
		}
	}

	role, ok := r.config.Roles[bucket]
	if !ok {
		role = RoleMatchOnly
	}

	if role == RoleMatchOnly {
		eventID, found, err := r.matchFixture(ctx, pe, bucket)
		if err != nil {
			return 0, false, err
		}
		if found {
			r.cacheEventID(cacheKey, eventID)
			return eventID, true, nil
		}
	}

	ev := &types.Event{
		Sport:          string(bucket),
		League:         pe.League,
		HomeTeam:       pe.HomeTeam,
		AwayTeam:       pe.AwayTeam,
		CommenceTime:   pe.CommenceTime,
		Status:         types.EventStatusUpcoming,
		ExternalSource: pe.Provider,
		ExternalID:     pe.ProviderEventID,
	}

	eventID, err := r.store.UpsertEventByExternalID(ctx, ev, role == RoleAuthoritative)
	if err != nil {
		return 0, false, fmt.Errorf("upsert event: %w", err)
	}

	r.cacheEventID(cacheKey, eventID)
	return eventID, false, nil
}

// matchFixture reconciles a provider fixture against independently-sourced
// canonical events inside the commence-time window. The window bounds
// candidates before any name scoring so same-team fixtures on different
// dates never collide.
func (r *Resolver) matchFixture(ctx context.Context, pe *types.ProviderEvent, bucket SportBucket) (int64, bool, error) {
	from := pe.CommenceTime.Add(-r.config.Window)
	to := pe.CommenceTime.Add(r.config.Window)

	candidates, err := r.store.EventsInWindow(ctx, string(bucket), from, to)
	if err != nil {
		return 0, false, fmt.Errorf("load candidate events: %w", err)
	}

	bestScore := 0
	var best *types.Event
	for _, candidate := range candidates {
		if candidate.ExternalSource == pe.Provider {
			// Same source reconciles by external id, not by name.
			continue
		}
		score := ScoreFixture(pe.HomeTeam, pe.AwayTeam, candidate.HomeTeam, candidate.AwayTeam)
		if score > bestScore {
			bestScore = score
			best = candidate
		}
	}

	if best == nil {
		return 0, false, nil
	}

	FuzzyMatchScore.Observe(float64(bestScore))
	r.logger.Debug("fixture-matched",
		zap.String("provider", pe.Provider),
		zap.String("provider-event-id", pe.ProviderEventID),
		zap.Int64("event-id", best.ID),
		zap.Int("score", bestScore))

	return best.ID, true, nil
}

func (r *Resolver) cacheEventID(key string, eventID int64) {
	if r.cache != nil {
		r.cache.Set(key, eventID, 12*time.Hour)
	}
}

func eventCacheKey(provider, providerEventID string) string {
	return "event:" + provider + ":" + providerEventID
}
