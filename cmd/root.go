package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "odds-intel",
	Short: "Sportsbook odds intelligence pipeline",
	Long: `Batch odds-intelligence pipeline that ingests provider odds snapshots,
resolves provider events to canonical sporting events, and computes
vig-free probabilities, cross-bookmaker arbitrage opportunities and
expected-value estimates with exactly-once persistence.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Optional .env for local development; env vars win.
		_ = godotenv.Load()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
