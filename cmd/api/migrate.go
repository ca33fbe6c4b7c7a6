package main

import (
	"fmt"

	"github.com/safar/shop-admin/internal/config"
	"github.com/safar/shop-admin/internal/database"
	"github.com/spf13/cobra"
)

const stepsFlag = "steps"

func newMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or roll back the embedded SQL migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(database.Up), string(database.Down)},
		RunE:      runMigrate,
	}

	migrateCmd.Flags().Int(stepsFlag, 0, "Number of migrations to apply or roll back (0 means all)")
	return migrateCmd
}

func runMigrate(cmd *cobra.Command, args []string) error {
	steps, err := cmd.Flags().GetInt(stepsFlag)
	if err != nil {
		return err
	}
	if steps < 0 {
		return fmt.Errorf("--%s must be a non-negative integer", stepsFlag)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := newLogger(cfg.Log)

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	direction := database.Direction(args[0])
	applied, err := database.Migrate(cmd.Context(), db, direction, steps, logger)
	if err != nil {
		return err
	}

	logger.Info("migrations finished", "direction", direction, "count", applied)
	return nil
}
