package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/sharpline/odds-intel/internal/arbitrage"
	"github.com/sharpline/odds-intel/internal/devig"
	"github.com/sharpline/odds-intel/internal/ev"
	"github.com/sharpline/odds-intel/pkg/types"
	"go.uber.org/zap"
)

// uniqueViolation is the Postgres error code for unique-key conflicts.
const uniqueViolation = "23505"

// PostgresStore implements Store using PostgreSQL.
type PostgresStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// PostgresConfig holds PostgreSQL configuration.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
	Logger   *zap.Logger
}

// NewPostgresStore creates a new PostgreSQL store.
func NewPostgresStore(cfg *PostgresConfig) (*PostgresStore, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	err = db.Ping()
	if err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	cfg.Logger.Info("postgres-store-connected",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database))

	return &PostgresStore{
		db:     db,
		logger: cfg.Logger,
	}, nil
}

// isUniqueViolation reports whether err is a Postgres unique-key conflict.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// UpsertProviderEvent creates or refreshes a provider event record.
// The event_id link is deliberately absent from the update set.
func (p *PostgresStore) UpsertProviderEvent(ctx context.Context, pe *types.ProviderEvent) error {
	query := `
		INSERT INTO provider_events (
			provider, provider_event_id, sport, league,
			home_team, away_team, commence_time, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (provider, provider_event_id) DO UPDATE SET
			sport = EXCLUDED.sport,
			league = EXCLUDED.league,
			home_team = EXCLUDED.home_team,
			away_team = EXCLUDED.away_team,
			commence_time = EXCLUDED.commence_time,
			updated_at = EXCLUDED.updated_at
	`

	_, err := p.db.ExecContext(ctx, query,
		pe.Provider, pe.ProviderEventID, pe.Sport, pe.League,
		pe.HomeTeam, pe.AwayTeam, pe.CommenceTime, pe.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert provider event: %w", err)
	}

	return nil
}

// InsertOffer stores an offer if its natural key is absent.
func (p *PostgresStore) InsertOffer(ctx context.Context, offer *types.Offer) (bool, error) {
	query := `
		INSERT INTO odds_offers (
			provider, provider_event_id, book_key, market, selection,
			line, price, participant, source_updated_at, event_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT DO NOTHING
	`

	res, err := p.db.ExecContext(ctx, query,
		offer.Provider, offer.ProviderEventID, offer.BookKey,
		string(offer.Market), string(offer.Selection),
		nullFloat(offer.Line), offer.Price, offer.Participant,
		offer.SourceUpdatedAt, nullInt(offer.EventID),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("insert offer: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}

	return rows > 0, nil
}

// UnlinkedProviderEvents returns unlinked provider events oldest first.
func (p *PostgresStore) UnlinkedProviderEvents(ctx context.Context, limit int) ([]*types.ProviderEvent, error) {
	query := `
		SELECT provider, provider_event_id, sport, league,
			home_team, away_team, commence_time, updated_at
		FROM provider_events
		WHERE event_id IS NULL AND commence_time IS NOT NULL
		ORDER BY commence_time ASC
		LIMIT $1
	`

	rows, err := p.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("select unlinked provider events: %w", err)
	}
	defer rows.Close()

	var events []*types.ProviderEvent
	for rows.Next() {
		pe := &types.ProviderEvent{}
		err = rows.Scan(
			&pe.Provider, &pe.ProviderEventID, &pe.Sport, &pe.League,
			&pe.HomeTeam, &pe.AwayTeam, &pe.CommenceTime, &pe.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan provider event: %w", err)
		}
		events = append(events, pe)
	}

	return events, rows.Err()
}

// UpsertEventByExternalID inserts or reuses a canonical event.
func (p *PostgresStore) UpsertEventByExternalID(ctx context.Context, ev *types.Event, overwrite bool) (int64, error) {
	var query string
	if overwrite {
		query = `
			INSERT INTO events (
				sport, league, home_team, away_team, commence_time,
				status, external_source, external_id
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (external_source, external_id) DO UPDATE SET
				league = EXCLUDED.league,
				home_team = EXCLUDED.home_team,
				away_team = EXCLUDED.away_team,
				commence_time = EXCLUDED.commence_time
			RETURNING id
		`
	} else {
		query = `
			INSERT INTO events (
				sport, league, home_team, away_team, commence_time,
				status, external_source, external_id
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (external_source, external_id) DO NOTHING
			RETURNING id
		`
	}

	var id int64
	err := p.db.QueryRowContext(ctx, query,
		ev.Sport, ev.League, ev.HomeTeam, ev.AwayTeam, ev.CommenceTime,
		string(ev.Status), ev.ExternalSource, ev.ExternalID,
	).Scan(&id)

	if errors.Is(err, sql.ErrNoRows) {
		// DO NOTHING path: the event already exists, fetch its id.
		err = p.db.QueryRowContext(ctx,
			`SELECT id FROM events WHERE external_source = $1 AND external_id = $2`,
			ev.ExternalSource, ev.ExternalID,
		).Scan(&id)
	}
	if err != nil {
		return 0, fmt.Errorf("upsert event %s/%s: %w", ev.ExternalSource, ev.ExternalID, err)
	}

	return id, nil
}

// EventsInWindow returns canonical events inside [from, to] for one sport.
func (p *PostgresStore) EventsInWindow(ctx context.Context, sport string, from, to time.Time) ([]*types.Event, error) {
	query := `
		SELECT id, sport, league, home_team, away_team, commence_time,
			status, COALESCE(external_source, ''), COALESCE(external_id, '')
		FROM events
		WHERE sport = $1 AND commence_time >= $2 AND commence_time <= $3
		ORDER BY commence_time ASC
	`

	rows, err := p.db.QueryContext(ctx, query, sport, from, to)
	if err != nil {
		return nil, fmt.Errorf("select events in window: %w", err)
	}
	defer rows.Close()

	var events []*types.Event
	for rows.Next() {
		ev := &types.Event{}
		err = rows.Scan(
			&ev.ID, &ev.Sport, &ev.League, &ev.HomeTeam, &ev.AwayTeam,
			&ev.CommenceTime, &ev.Status, &ev.ExternalSource, &ev.ExternalID,
		)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, ev)
	}

	return events, rows.Err()
}

// LinkProviderEvent writes the canonical event id onto the provider event
// and onto every offer of that provider event that does not yet have one.
// Two independent keyed updates; no transaction is required because both are
// idempotent and a partial write is repaired by the next run.
func (p *PostgresStore) LinkProviderEvent(ctx context.Context, provider, providerEventID string, eventID int64) error {
	_, err := p.db.ExecContext(ctx,
		`UPDATE provider_events SET event_id = $3
		 WHERE provider = $1 AND provider_event_id = $2`,
		provider, providerEventID, eventID,
	)
	if err != nil {
		return fmt.Errorf("link provider event: %w", err)
	}

	_, err = p.db.ExecContext(ctx,
		`UPDATE odds_offers SET event_id = $3
		 WHERE provider = $1 AND provider_event_id = $2 AND event_id IS NULL`,
		provider, providerEventID, eventID,
	)
	if err != nil {
		return fmt.Errorf("link offers: %w", err)
	}

	return nil
}

// LinkedOffers returns all offers with a canonical event link in the
// deterministic processing order for intelligence computation.
func (p *PostgresStore) LinkedOffers(ctx context.Context) ([]*types.Offer, error) {
	query := `
		SELECT provider, provider_event_id, book_key, market, selection,
			line, price, COALESCE(participant, ''), source_updated_at, event_id
		FROM odds_offers
		WHERE event_id IS NOT NULL
		ORDER BY provider_event_id, market, line NULLS FIRST, book_key, selection
	`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select linked offers: %w", err)
	}
	defer rows.Close()

	var offers []*types.Offer
	for rows.Next() {
		offer := &types.Offer{}
		var line sql.NullFloat64
		var market, selection string
		err = rows.Scan(
			&offer.Provider, &offer.ProviderEventID, &offer.BookKey,
			&market, &selection, &line, &offer.Price,
			&offer.Participant, &offer.SourceUpdatedAt, &offer.EventID,
		)
		if err != nil {
			return nil, fmt.Errorf("scan offer: %w", err)
		}
		offer.Market = types.MarketType(market)
		offer.Selection = types.Selection(selection)
		if line.Valid {
			v := line.Float64
			offer.Line = &v
		}
		offers = append(offers, offer)
	}

	return offers, rows.Err()
}

// InsertDevigResult stores a devig result if absent.
func (p *PostgresStore) InsertDevigResult(ctx context.Context, res *devig.Result) (bool, error) {
	query := `
		INSERT INTO devigged_odds (
			event_id, provider_event_id, book_key, market, line,
			outcome_a, outcome_b, odds_a, odds_b,
			fair_prob_a, fair_prob_b, vig, source_updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT DO NOTHING
	`

	result, err := p.db.ExecContext(ctx, query,
		res.EventID, res.ProviderEventID, res.BookKey, string(res.Market),
		nullFloat(res.Line), string(res.OutcomeA), string(res.OutcomeB),
		res.OddsA, res.OddsB, res.FairProbA, res.FairProbB, res.Vig,
		res.SourceUpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("insert devig result: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}

	return rows > 0, nil
}

// InsertOpportunity stores an arbitrage opportunity if absent.
func (p *PostgresStore) InsertOpportunity(ctx context.Context, opp *arbitrage.Opportunity) (bool, error) {
	query := `
		INSERT INTO arbitrage (
			id, event_id, provider_event_id, market, line,
			selection_a, selection_b, book_a, book_b, odds_a, odds_b,
			arb_percentage, total_stake, stake_a, stake_b, detected_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT DO NOTHING
	`

	result, err := p.db.ExecContext(ctx, query,
		opp.ID, opp.EventID, opp.ProviderEventID, string(opp.Market),
		nullFloat(opp.Line), string(opp.SelectionA), string(opp.SelectionB),
		opp.BookA, opp.BookB, opp.OddsA, opp.OddsB,
		opp.ArbPercentage, opp.TotalStake, opp.StakeA, opp.StakeB,
		opp.DetectedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("insert opportunity: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}

	return rows > 0, nil
}

// InsertEvEstimate stores an EV estimate if absent.
func (p *PostgresStore) InsertEvEstimate(ctx context.Context, est *ev.Estimate) (bool, error) {
	query := `
		INSERT INTO ev_bets (
			event_id, provider_event_id, book_key, market, line, selection,
			odds, stake, true_probability, expected_value, expected_value_pct,
			source_updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT DO NOTHING
	`

	result, err := p.db.ExecContext(ctx, query,
		est.EventID, est.ProviderEventID, est.BookKey, string(est.Market),
		nullFloat(est.Line), string(est.Selection), est.Odds, est.Stake,
		est.TrueProbability, est.ExpectedValue, est.ExpectedValuePct,
		est.SourceUpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("insert ev estimate: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}

	return rows > 0, nil
}

// ListOpportunities returns the most recently detected opportunities.
func (p *PostgresStore) ListOpportunities(ctx context.Context, limit int) ([]*arbitrage.Opportunity, error) {
	query := `
		SELECT id, event_id, provider_event_id, market, line,
			selection_a, selection_b, book_a, book_b, odds_a, odds_b,
			arb_percentage, total_stake, stake_a, stake_b, detected_at
		FROM arbitrage
		ORDER BY detected_at DESC
		LIMIT $1
	`

	rows, err := p.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("select opportunities: %w", err)
	}
	defer rows.Close()

	var opps []*arbitrage.Opportunity
	for rows.Next() {
		opp := &arbitrage.Opportunity{}
		var line sql.NullFloat64
		var market, selA, selB string
		err = rows.Scan(
			&opp.ID, &opp.EventID, &opp.ProviderEventID, &market, &line,
			&selA, &selB, &opp.BookA, &opp.BookB, &opp.OddsA, &opp.OddsB,
			&opp.ArbPercentage, &opp.TotalStake, &opp.StakeA, &opp.StakeB,
			&opp.DetectedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan opportunity: %w", err)
		}
		opp.Market = types.MarketType(market)
		opp.SelectionA = types.Selection(selA)
		opp.SelectionB = types.Selection(selB)
		if line.Valid {
			v := line.Float64
			opp.Line = &v
		}
		opps = append(opps, opp)
	}

	return opps, rows.Err()
}

// Close closes the database connection.
func (p *PostgresStore) Close() error {
	p.logger.Info("closing-postgres-store")
	return p.db.Close()
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullInt(v int64) sql.NullInt64 {
	if v == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: v, Valid: true}
}
