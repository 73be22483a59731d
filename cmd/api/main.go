package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"starwars-api/config"
	"starwars-api/internal/database"
	"starwars-api/internal/handlers"
	"starwars-api/internal/jobs"
	"starwars-api/internal/logging"
	"starwars-api/internal/middleware"
	"starwars-api/internal/server"
	"starwars-api/internal/services"
	"starwars-api/internal/telemetry"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logging.Init(cfg.IsDevelopment(), cfg.OTelServiceName)

	shutdownTelemetry, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName: cfg.OTelServiceName,
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

	if err := middleware.InitMetrics(); err != nil {
		logging.Logger().Fatal().Err(err).Msg("failed to initialize metrics")
	}

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

	if err := database.Migrate(db); err != nil {
		logging.Logger().Fatal().Err(err).Msg("failed to run database migrations")
	}

	// A nil *jobs.Client must not reach the handler as a non-nil interface.
	var notifier handlers.FavoriteNotifier
	if cfg.JobsEnabled() {
		jobClient, err := jobs.NewClient(cfg.RedisAddr())
		if err != nil {
			logging.Logger().Fatal().Err(err).Msg("failed to create job client")
		}
		defer jobClient.Close()
		notifier = jobClient
	} else {
		logging.Logger().Info().Msg("REDIS_URL not set, favorite recounts disabled")
	}

	e := server.New(server.Options{
		ServiceName: cfg.OTelServiceName,
		Tracing:     true,
		Users:       middleware.FixedUser(cfg.FixedUserID),
	}, server.Handlers{
		People:    handlers.NewPeopleHandler(services.NewPeopleService(db)),
		Planets:   handlers.NewPlanetHandler(services.NewPlanetService(db)),
		Users:     handlers.NewUserHandler(services.NewUserService(db)),
		Favorites: handlers.NewFavoriteHandler(services.NewFavoriteService(db), notifier),
		Health:    handlers.NewHealthHandler(db, cfg.RedisAddr()),
	})

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		logging.Logger().Info().
			Str("port", cfg.Port).
			Str("dialect", database.Config{DatabaseURL: cfg.DatabaseURL}.Dialect()).
			Msg("starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Logger().Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Logger().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logging.Logger().Error().Err(err).Msg("failed to shutdown server")
	}
}
