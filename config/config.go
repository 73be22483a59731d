package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string

	DatabaseURL string
	SQLitePath  string

	RedisURL          string
	WorkerConcurrency int

	// FixedUserID is the identity every favorites request acts as until a real
	// identity provider sits behind middleware.Identity.
	FixedUserID uint

	SeedUserEmail    string
	SeedUserPassword string

	OTelServiceName string
	OTelEndpoint    string
}

func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnv("PORT", "3000"),
		Environment:      getEnv("ENVIRONMENT", "development"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		SQLitePath:       getEnv("SQLITE_PATH", "/tmp/test.db"),
		RedisURL:         getEnv("REDIS_URL", ""),
		SeedUserEmail:    getEnv("SEED_USER_EMAIL", "user@starwars.dev"),
		SeedUserPassword: getEnv("SEED_USER_PASSWORD", "changeme"),
		OTelServiceName:  getEnv("OTEL_SERVICE_NAME", "starwars-api"),
		OTelEndpoint:     getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4318"),
	}

	userID, err := strconv.ParseUint(getEnv("FIXED_USER_ID", "1"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid FIXED_USER_ID: %w", err)
	}
	cfg.FixedUserID = uint(userID)

	concurrency, err := strconv.Atoi(getEnv("WORKER_CONCURRENCY", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid WORKER_CONCURRENCY: %w", err)
	}
	cfg.WorkerConcurrency = concurrency

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if c.DatabaseURL == "" && c.SQLitePath == "" {
		return fmt.Errorf("either DATABASE_URL or SQLITE_PATH is required")
	}
	if c.FixedUserID == 0 {
		return fmt.Errorf("FIXED_USER_ID must be positive")
	}
	if c.WorkerConcurrency < 1 {
		return fmt.Errorf("WORKER_CONCURRENCY must be at least 1")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) JobsEnabled() bool {
	return c.RedisURL != ""
}

// RedisAddr strips the redis:// scheme asynq does not accept.
func (c *Config) RedisAddr() string {
	if len(c.RedisURL) > 8 && c.RedisURL[:8] == "redis://" {
		return c.RedisURL[8:]
	}
	return c.RedisURL
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
