package cmd

import (
	"context"
	"fmt"

	"github.com/sharpline/odds-intel/internal/app"
	"github.com/sharpline/odds-intel/pkg/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

//nolint:gochecknoglobals // Cobra boilerplate
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one pipeline batch",
	Long: `Runs one full pipeline batch over the current offer snapshot:
1. Resolve unlinked provider events to canonical events
2. Group linked offers into two-outcome market sets
3. Devig each bookmaker's price pair into fair probabilities
4. Scan best cross-book prices for arbitrage opportunities
5. Estimate expected value per offer against the baseline probability

All writes are keyed inserts; re-running over the same data is a no-op.`,
	RunE: runBatch,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(runCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
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

	pipe, err := app.SetupPipeline(cfg, logger, store)
	if err != nil {
		return fmt.Errorf("setup pipeline: %w", err)
	}

	report, err := pipe.Run(context.Background())
	if err != nil {
		return fmt.Errorf("run pipeline: %w", err)
	}

	logger.Info("batch-complete",
		zap.Int("events-linked", report.Resolution.Linked),
		zap.Int("events-deferred", report.Resolution.Deferred),
		zap.Int("eligible-groups", report.EligibleGroups),
		zap.Int("devigged", report.Devigged),
		zap.Int("opportunities", report.Opportunities),
		zap.Int("ev-estimates", report.EvEstimates))

	return nil
}
