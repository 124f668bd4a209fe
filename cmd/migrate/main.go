package main

import (
	"fmt"
	"os"

	"github.com/budgify/budgify/internal/config"
	"github.com/budgify/budgify/internal/db"
	"github.com/budgify/budgify/internal/logger"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the Budgify database schema",
	}

	rootCmd.AddCommand(
		schemaCmd("up", "Apply all pending migrations", func(database *sqlx.DB, driver string) error {
			return db.RunMigrations(database.DB, driver)
		}),
		schemaCmd("down", "Roll back the most recent migration", func(database *sqlx.DB, driver string) error {
			return db.MigrateDown(database.DB, driver)
		}),
		schemaCmd("status", "Show applied and pending migrations", func(database *sqlx.DB, driver string) error {
			return db.MigrationStatus(database.DB, driver)
		}),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func schemaCmd(use, short string, run func(database *sqlx.DB, driver string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger.Init(logger.Options{Development: cfg.IsDevelopment(), Environment: cfg.AppEnv})

			database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close(database)

			return run(database, cfg.DBDriver)
		},
	}
}
