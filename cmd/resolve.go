package cmd

import (
	"context"
	"fmt"

	"github.com/sharpline/odds-intel/internal/app"
	"github.com/sharpline/odds-intel/internal/resolver"
	"github.com/sharpline/odds-intel/pkg/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

//nolint:gochecknoglobals // Cobra boilerplate
var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Run one entity-resolution batch",
	Long: `Links pending provider events to canonical events without running the
downstream stages. Basketball fixtures are created from provider data;
football fixtures are fuzzy-matched by team names against the primary
fixture source inside the commence-time window.`,
	RunE: runResolve,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	store, err := app.SetupStore(cfg, logger)
	if err != nil {
		return fmt.Errorf("setup store: %w", err)
	}
	defer func() {
		_ = store.Close()
	}()

	res := resolver.New(store, nil, resolver.Config{
		Window:     cfg.ResolutionWindow,
		BatchLimit: cfg.ResolutionBatchLimit,
		Roles:      resolver.DefaultRoles(),
		Logger:     logger,
	})

	report, err := res.ResolveBatch(context.Background())
	if err != nil {
		return fmt.Errorf("resolve batch: %w", err)
	}

	logger.Info("resolve-complete",
		zap.Int("processed", report.Processed),
		zap.Int("linked", report.Linked),
		zap.Int("fuzzy-matched", report.Matched),
		zap.Int("deferred", report.Deferred))

	return nil
}
