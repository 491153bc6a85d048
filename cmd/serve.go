package cmd

import (
	"fmt"

	"github.com/sharpline/odds-intel/internal/app"
	"github.com/sharpline/odds-intel/pkg/config"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the pipeline on an interval with an HTTP surface",
	Long: `Starts the pipeline in serve mode: one batch runs immediately and then
on every PIPELINE_INTERVAL tick, with /metrics, /health, /ready and
/api/opportunities exposed over HTTP.`,
	RunE: serve,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(cmd *cobra.Command, args []string) error {
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

	application, err := app.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}

	err = application.Run()
	if err != nil {
		return fmt.Errorf("run app: %w", err)
	}

	return nil
}
