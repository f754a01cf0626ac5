// Package main provides the talentflow command: the recruitment API server and its admin tools.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/talentflow/internal/config"
	"github.com/jonathan/talentflow/internal/logger"
)

var (
	configFile string

	// set by loadConfig before any subcommand runs
	appConfig *config.Config
	appLog    *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:               "talentflow",
	Short:             "TalentFlow recruitment API and candidate scoring",
	Long:              "TalentFlow stores jobs and candidates, scores resumes against job requirements and books interviews through a REST API.",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if appLog != nil {
			_ = appLog.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is talentflow.yaml in the working directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug logging")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
}

// flagKeys maps command line flags onto config keys. Flags a command does not define are skipped.
var flagKeys = map[string]string{
	"debug": "log.debug",
	"json":  "log.json",
	"port":  "server.port",
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	v := config.NewViper()
	for flag, key := range flagKeys {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("failed to bind --%s: %w", flag, err)
			}
		}
	}
	if err := config.ReadFile(v, configFile); err != nil {
		return err
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	appConfig, appLog = cfg, log
	if used := v.ConfigFileUsed(); used != "" {
		appLog.Debug("config file loaded", zap.String("path", used))
	}
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
