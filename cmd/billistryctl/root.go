package main

import (
	"fmt"
	"os"

	"github.com/SscSPs/billistry/internal/platform/config"
	"github.com/spf13/cobra"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "billistryctl",
	Short: "Operator tooling for a Billistry deployment",
	Long: `billistryctl runs the maintenance tasks of a Billistry deployment:
schema migrations, subscription plan seeding and webhook signing for
manual gateway tests.

Configuration is read from the same environment variables (and .env file)
as the API server.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	log := withComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig is swapped in tests.
var loadConfig = config.LoadConfig

func requireDatabaseURL(cfg *config.Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("PGSQL_URL is not set")
	}
	return nil
}
