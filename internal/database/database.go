package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"starwars-api/internal/logging"

	"github.com/cenkalti/backoff/v5"
	"github.com/glebarez/sqlite"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

type Config struct {
	// DatabaseURL selects PostgreSQL. When empty the SQLite file at SQLitePath
	// is used instead.
	DatabaseURL string
	SQLitePath  string
	Debug       bool
	Tracing     bool
}

// Dialect reports which backend cfg resolves to.
func (cfg Config) Dialect() string {
	if cfg.DatabaseURL == "" || strings.HasPrefix(cfg.DatabaseURL, "sqlite://") {
		return DialectSQLite
	}
	return DialectPostgres
}

func (cfg Config) dialector() gorm.Dialector {
	if cfg.Dialect() == DialectSQLite {
		path := cfg.SQLitePath
		if strings.HasPrefix(cfg.DatabaseURL, "sqlite://") {
			path = strings.TrimPrefix(cfg.DatabaseURL, "sqlite://")
		}
		return sqlite.Open(path)
	}
	return postgres.Open(cfg.DatabaseURL)
}

func Connect(cfg Config) (*gorm.DB, error) {
	logLevel := logger.Warn
	if cfg.Debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(cfg.dialector(), &gorm.Config{
		Logger: logging.NewGormLogger(logLevel, 200*time.Millisecond),
		// Favorites may point at rows that do not exist (yet); the store must
		// accept them on every backend.
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Tracing {
		if err := db.Use(otelgorm.NewPlugin()); err != nil {
			return nil, fmt.Errorf("failed to setup otel plugin: %w", err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if cfg.Dialect() == DialectSQLite {
		// SQLite allows a single writer.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	return db, nil
}

func CheckHealth(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// WaitReady pings db with exponential backoff until it answers or maxTries is
// exhausted.
func WaitReady(ctx context.Context, db *gorm.DB, maxTries uint) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 5 * time.Second

	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := CheckHealth(pingCtx, db); err != nil {
			logging.Warn(ctx).Err(err).Int("attempt", attempt).Msg("database not ready")
			return struct{}{}, err
		}
		return struct{}{}, nil
	},
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(maxTries),
	)
	if err != nil {
		return fmt.Errorf("database not ready after %d attempts: %w", attempt, err)
	}
	return nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
