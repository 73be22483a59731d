package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"starwars-api/config"
	"starwars-api/internal/database"
	"starwars-api/internal/jobs"
	"starwars-api/internal/logging"
	"starwars-api/internal/telemetry"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	serviceName := cfg.OTelServiceName + "-worker"
	logging.Init(cfg.IsDevelopment(), serviceName)

	if !cfg.JobsEnabled() {
		logging.Logger().Fatal().Msg("REDIS_URL is required to run the worker")
	}

	shutdownTelemetry, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName: serviceName,
		Environment: cfg.Environment,
		Endpoint:    cfg.OTelEndpoint,
	})
	if err != nil {
		logging.Logger().Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			logging.Logger().Error().Err(err).Msg("failed to shutdown telemetry")
		}
	}()

	db, err := database.Connect(database.Config{
		DatabaseURL: cfg.DatabaseURL,
		SQLitePath:  cfg.SQLitePath,
		Debug:       cfg.IsDevelopment(),
		Tracing:     true,
	})
	if err != nil {
		logging.Logger().Fatal().Err(err).Msg("failed to initialize database")
	}
	defer database.Close(db)

	if err := database.WaitReady(ctx, db, 5); err != nil {
		logging.Logger().Fatal().Err(err).Msg("database unavailable")
	}

	server := jobs.NewServer(cfg.RedisAddr(), cfg.WorkerConcurrency, db)

	go func() {
		if err := server.Start(); err != nil {
			logging.Logger().Fatal().Err(err).Msg("failed to start worker")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Logger().Info().Msg("shutting down worker")
	server.Shutdown()
}
