package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/talentflow/internal/config"
	"github.com/jonathan/talentflow/internal/db"
	"github.com/jonathan/talentflow/internal/server"
)

var serveMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  "Start the HTTP server exposing the jobs, candidates, interviews and emails endpoints. Stops gracefully on SIGINT or SIGTERM.",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "Apply pending database migrations before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := appConfig.Validate(config.RequireDatabase | config.RequireAuth); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(ctx, appConfig.Database.URL)
	if err != nil {
		return err
	}
	defer database.Close()

	if serveMigrate {
		applied, err := database.MigrateUp(ctx)
		if err != nil {
			return err
		}
		appLog.Info("migrations applied", zap.Int("count", applied))
	}

	srv, err := server.New(appConfig, database, appLog)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	return srv.Start(ctx)
}
