package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"vehicle-auction/inventory/internal/api"
	"vehicle-auction/inventory/internal/config"
	"vehicle-auction/inventory/internal/jobs"
	"vehicle-auction/inventory/internal/logging"
	"vehicle-auction/inventory/internal/metrics"
	"vehicle-auction/inventory/internal/routes"
	"vehicle-auction/inventory/internal/workers"
)

const shutdownTimeout = 15 * time.Second

// @title Vehicle Auction Inventory API
// @version 1.0
// @description Normalized wholesale auction inventory with filtering, ranking and market analysis.
// @host localhost:8080
// @BasePath /
func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := logging.Init(cfg.AppEnv, cfg.LogLevel); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Inventory service starting up",
		"environment", cfg.AppEnv,
		"store", cfg.Store.Driver,
		"cache", cfg.Cache.Driver,
		"fixtures", cfg.UseFixtures,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logging.Error("Inventory service stopped with error", "error", err)
		logging.Close()
		os.Exit(1)
	}
	logging.Info("Inventory service stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metricsReg := metrics.NewMetricsRegistry(promRegistry)

	deps, err := api.InitDependencies(ctx, cfg, metricsReg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer func() {
		if err := deps.Close(); err != nil {
			logging.Warn("Failed to close dependencies", "error", err)
		}
	}()

	jobs.InitializeJobs(ctx, deps.Ingestion)
	workers.InitWorkers(ctx, deps.Services.Facets, deps.Repo.Listings, metricsReg, cfg.Cache.WarmPeriod)

	upSince := time.Now()
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           routes.RegisterRoutes(deps, promRegistry, upSince),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logging.Info("Server starting", "port", cfg.Server.Port, "environment", cfg.AppEnv)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logging.Info("Shutdown signal received, draining connections")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
