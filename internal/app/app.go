package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/sharpline/odds-intel/internal/arbitrage"
	"github.com/sharpline/odds-intel/internal/ev"
	"github.com/sharpline/odds-intel/internal/pipeline"
	"github.com/sharpline/odds-intel/internal/resolver"
	"github.com/sharpline/odds-intel/internal/storage"
	"github.com/sharpline/odds-intel/pkg/cache"
	"github.com/sharpline/odds-intel/pkg/config"
	"github.com/sharpline/odds-intel/pkg/healthprobe"
	"github.com/sharpline/odds-intel/pkg/httpserver"
	"go.uber.org/zap"
)

// App is the main application orchestrator for serve mode: it exposes the
// operational HTTP surface and runs the pipeline on an interval.
type App struct {
	cfg           *config.Config
	logger        *zap.Logger
	healthChecker *healthprobe.HealthChecker
	httpServer    *httpserver.Server
	store         storage.Store
	pipeline      *pipeline.Pipeline
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
}

// New creates a new application instance.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())

	healthChecker := healthprobe.New()

	store, err := SetupStore(cfg, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup store: %w", err)
	}

	pipe, err := SetupPipeline(cfg, logger, store)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup pipeline: %w", err)
	}

	httpServer := httpserver.New(&httpserver.Config{
		Port:          cfg.HTTPPort,
		Logger:        logger,
		HealthChecker: healthChecker,
		Store:         store,
	})

	return &App{
		cfg:           cfg,
		logger:        logger,
		healthChecker: healthChecker,
		httpServer:    httpServer,
		store:         store,
		pipeline:      pipe,
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

// SetupStore builds the configured Store implementation.
func SetupStore(cfg *config.Config, logger *zap.Logger) (storage.Store, error) {
	if cfg.StorageMode == "postgres" {
		pgStore, err := storage.NewPostgresStore(&storage.PostgresConfig{
			Host:     cfg.PostgresHost,
			Port:     cfg.PostgresPort,
			User:     cfg.PostgresUser,
			Password: cfg.PostgresPass,
			Database: cfg.PostgresDB,
			SSLMode:  cfg.PostgresSSL,
			Logger:   logger,
		})
		if err != nil {
			return nil, fmt.Errorf("create postgres store: %w", err)
		}
		return pgStore, nil
	}

	return storage.NewMemoryStore(logger), nil
}

// SetupPipeline wires the resolver, scanner and EV calculator onto a store.
func SetupPipeline(cfg *config.Config, logger *zap.Logger, store storage.Store) (*pipeline.Pipeline, error) {
	eventCache, err := cache.NewRistrettoCache(&cache.RistrettoConfig{
		NumCounters: 100000, // 10x expected max items (10k provider events)
		MaxCost:     10000,
		BufferItems: 64,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create event cache: %w", err)
	}

	res := resolver.New(store, eventCache, resolver.Config{
		Window:     cfg.ResolutionWindow,
		BatchLimit: cfg.ResolutionBatchLimit,
		Roles:      resolver.DefaultRoles(),
		Logger:     logger,
	})

	scanner := arbitrage.NewScanner(arbitrage.Config{
		TotalStake: cfg.AssumedStake,
		Logger:     logger,
	})

	evCalc := ev.NewCalculator(ev.Config{
		Stake:          cfg.AssumedStake,
		ReferenceBooks: cfg.ReferenceBooks,
		Logger:         logger,
	})

	return pipeline.New(store, res, scanner, evCalc, logger), nil
}
