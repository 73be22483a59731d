package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"starwars-api/config"
	"starwars-api/internal/database"
	"starwars-api/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logging.Init(cfg.IsDevelopment(), cfg.OTelServiceName+"-seed")

	db, err := database.Connect(database.Config{
		DatabaseURL: cfg.DatabaseURL,
		SQLitePath:  cfg.SQLitePath,
		Debug:       cfg.IsDevelopment(),
	})
	if err != nil {
		logging.Logger().Fatal().Err(err).Msg("failed to initialize database")
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		logging.Logger().Fatal().Err(err).Msg("failed to run database migrations")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := database.Seed(ctx, db, database.SeedOptions{
		UserID:       cfg.FixedUserID,
		UserEmail:    cfg.SeedUserEmail,
		UserPassword: cfg.SeedUserPassword,
	}); err != nil {
		logging.Logger().Fatal().Err(err).Msg("failed to seed database")
	}

	logging.Logger().Info().Uint("user_id", cfg.FixedUserID).Msg("database seeded")
}
