package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"vehicle-auction/inventory/internal/api"
	"vehicle-auction/inventory/internal/config"
	"vehicle-auction/inventory/internal/logging"
	"vehicle-auction/inventory/internal/metrics"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:          "ingest",
	Short:        "Vehicle auction inventory ingestion tools",
	Long:         "Runs an ingestion pass against the configured auction source and listing store outside the HTTP server.",
	SilenceUsage: true,
}

// Execute runs the root command with ctx
func Execute(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	defer logging.Close()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logging.Error("Command failed", "error", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config/config.yaml", "Config file path")
}

// withDeps loads config, initializes logging and the dependency graph, then
// hands them to run. Dependencies are closed when run returns.
func withDeps(run func(cmd *cobra.Command, args []string, deps *api.Dependencies) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if err := logging.Init(cfg.AppEnv, cfg.LogLevel); err != nil {
			return err
		}

		deps, err := api.InitDependencies(cmd.Context(), cfg, metrics.NewMetricsRegistry(nil))
		if err != nil {
			return fmt.Errorf("failed to initialize dependencies: %w", err)
		}
		defer func() {
			if err := deps.Close(); err != nil {
				logging.Warn("Failed to close dependencies", "error", err)
			}
		}()

		return run(cmd, args, deps)
	}
}
