package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/sharpline/odds-intel/internal/app"
	"github.com/sharpline/odds-intel/internal/ingest"
	"github.com/sharpline/odds-intel/pkg/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

//nolint:gochecknoglobals // Cobra boilerplate
var (
	ingestProvider string
	ingestFile     string

	ingestCmd = &cobra.Command{
		Use:   "ingest",
		Short: "Ingest a provider odds payload",
		Long: `Reads one provider odds payload (JSON array of events with bookmaker
quotes), normalizes selections and stores the offers. Quotes with
unrecognized selection labels or prices at or below 1.0 are dropped and
counted; re-ingesting the same payload stores nothing new.`,
		RunE: runIngest,
	}
)

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	ingestCmd.Flags().StringVar(&ingestProvider, "provider", "", "provider key the payload came from (required)")
	ingestCmd.Flags().StringVar(&ingestFile, "file", "-", "payload file, or - for stdin")
	_ = ingestCmd.MarkFlagRequired("provider")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
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

	in := os.Stdin
	if ingestFile != "-" {
		f, err := os.Open(ingestFile)
		if err != nil {
			return fmt.Errorf("open payload: %w", err)
		}
		defer func() {
			_ = f.Close()
		}()
		in = f
	}

	events, err := ingest.DecodePayload(in)
	if err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	store, err := app.SetupStore(cfg, logger)
	if err != nil {
		return fmt.Errorf("setup store: %w", err)
	}
	defer func() {
		_ = store.Close()
	}()

	ingestor := ingest.NewIngestor(store, logger)

	report, err := ingestor.IngestPayload(context.Background(), ingestProvider, events)
	if err != nil {
		return fmt.Errorf("ingest payload: %w", err)
	}

	logger.Info("ingest-complete",
		zap.String("provider", ingestProvider),
		zap.Int("provider-events", report.ProviderEvents),
		zap.Int("offers-stored", report.OffersStored),
		zap.Int("offers-skipped", report.OffersSkipped),
		zap.Int("malformed", report.Malformed))

	return nil
}
