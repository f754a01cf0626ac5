package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/talentflow/internal/config"
	"github.com/jonathan/talentflow/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: withDatabase(func(cmd *cobra.Command, database *db.DB) error {
		applied, err := database.MigrateUp(cmd.Context())
		if err != nil {
			return err
		}
		appLog.Info("migrations applied", zap.Int("count", applied))
		return nil
	}),
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	Args:  cobra.NoArgs,
	RunE: withDatabase(func(cmd *cobra.Command, database *db.DB) error {
		if err := database.MigrateDown(cmd.Context()); err != nil {
			return err
		}
		appLog.Info("rolled back one migration")
		return nil
	}),
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List migrations and whether they are applied",
	Args:  cobra.NoArgs,
	RunE: withDatabase(func(cmd *cobra.Command, database *db.DB) error {
		statuses, err := database.MigrationStatuses(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, s := range statuses {
			state := "pending"
			if s.Applied {
				state = "applied"
			}
			_, _ = fmt.Fprintf(out, "%5d  %-8s %s\n", s.Version, state, s.Path)
		}
		return nil
	}),
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)
	rootCmd.AddCommand(migrateCmd)
}

// withDatabase connects to the configured database for the duration of fn.
func withDatabase(fn func(*cobra.Command, *db.DB) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		if err := appConfig.Validate(config.RequireDatabase); err != nil {
			return err
		}
		database, err := db.Connect(cmd.Context(), appConfig.Database.URL)
		if err != nil {
			return err
		}
		defer database.Close()
		return fn(cmd, database)
	}
}
