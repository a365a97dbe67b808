package main

import (
	"fmt"

	"github.com/SscSPs/billistry/pkg/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back database migrations",
	Long: `Run the SQL migrations under MIGRATIONS_PATH against PGSQL_URL.

The API server applies pending migrations on start; these commands are for
rolling back and for inspecting the schema version.`,
}

var migrateUpCmd = &cobra.Command{
	Use:     "up",
	Short:   "Apply every pending migration",
	Example: `  billistryctl migrate up`,
	RunE:    runMigrateUp,
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	Example: `  # Roll back the latest migration
  billistryctl migrate down --steps 1

  # Roll back everything
  billistryctl migrate down --all`,
	RunE: runMigrateDown,
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	RunE:  runMigrateVersion,
}

func init() {
	migrateDownCmd.Flags().Int("steps", 1, "Number of migrations to roll back")
	migrateDownCmd.Flags().Bool("all", false, "Roll back every migration")

	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
	rootCmd.AddCommand(migrateCmd)
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	log := withComponent("migrate")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := requireDatabaseURL(cfg); err != nil {
		return err
	}

	log.Info().Str("path", cfg.MigrationsPath).Msg("Applying migrations")
	applied, err := database.MigrateUp(cfg.DatabaseURL, cfg.MigrationsPath)
	if err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	if !applied {
		log.Info().Msg("No new migrations to apply")
		return nil
	}
	log.Info().Msg("Migrations applied")
	return nil
}

func runMigrateDown(cmd *cobra.Command, args []string) error {
	log := withComponent("migrate")

	steps, _ := cmd.Flags().GetInt("steps")
	all, _ := cmd.Flags().GetBool("all")
	if all {
		steps = 0
	} else if steps <= 0 {
		return fmt.Errorf("--steps must be positive, use --all to roll back everything")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := requireDatabaseURL(cfg); err != nil {
		return err
	}

	log.Warn().Int("steps", steps).Bool("all", all).Msg("Rolling back migrations")
	if err := database.MigrateDown(cfg.DatabaseURL, cfg.MigrationsPath, steps); err != nil {
		return fmt.Errorf("migrate down: %w", err)
	}
	log.Info().Msg("Rollback complete")
	return nil
}

func runMigrateVersion(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := requireDatabaseURL(cfg); err != nil {
		return err
	}

	version, dirty, err := database.MigrationVersion(cfg.DatabaseURL, cfg.MigrationsPath)
	if err != nil {
		return fmt.Errorf("migrate version: %w", err)
	}
	if dirty {
		fmt.Fprintf(cmd.OutOrStdout(), "%d (dirty)\n", version)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d\n", version)
	return nil
}
