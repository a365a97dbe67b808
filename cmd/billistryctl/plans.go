package main

import (
	"fmt"
	"time"

	"github.com/SscSPs/billistry/internal/core/services"
	"github.com/SscSPs/billistry/internal/repositories/database/pgsql"
	"github.com/SscSPs/billistry/pkg/database"
	"github.com/spf13/cobra"
)

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "Manage subscription plans",
}

var plansSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Upsert the default subscription plans",
	Long: `Insert the Monthly, Quarterly and Yearly plans, or update the plan of the
same name when it already exists. Existing plan ids are kept so running
subscriptions are unaffected.`,
	Example: `  billistryctl plans seed`,
	RunE:    runPlansSeed,
}

func init() {
	plansSeedCmd.Flags().String("by", "system", "User id recorded as the author of the seeded plans")

	plansCmd.AddCommand(plansSeedCmd)
	rootCmd.AddCommand(plansCmd)
}

func runPlansSeed(cmd *cobra.Command, args []string) error {
	log := withComponent("plans")
	seededBy, _ := cmd.Flags().GetString("by")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := requireDatabaseURL(cfg); err != nil {
		return err
	}

	ctx := cmd.Context()
	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, true)
	if err != nil {
		return err
	}
	defer database.ClosePgxPool(pool)

	repos := pgsql.NewRepositoryProvider(pool)
	n, err := services.SeedDefaultPlans(ctx, repos.SubscriptionRepo, seededBy, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("seed plans: %w", err)
	}
	log.Info().Int("plans", n).Str("by", seededBy).Msg("Subscription plans seeded")
	return nil
}
