package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/simaogato/squad-architect-backend/internal/usecase/scout"
)

// Storage drivers accepted in DB_DRIVER
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	DBDriver  string
	DBPath    string
	DBConnStr string

	GRPCPort    string
	MetricsPort string
	APIToken    string
	LogLevel    string

	FeedBaseURL         string
	FeedTimeout         time.Duration
	FeedRetryAttempts   int
	FeedRetryBackoff    time.Duration
	FeedRefreshInterval time.Duration

	InitialBank       int
	ScoutDefaultDepth int
}

// Load reads .env when present, then the environment
func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Info().
		Str("db_driver", cfg.DBDriver).
		Str("grpc_port", cfg.GRPCPort).
		Str("metrics_port", cfg.MetricsPort).
		Str("log_level", cfg.LogLevel).
		Str("feed_base_url", cfg.FeedBaseURL).
		Dur("feed_refresh_interval", cfg.FeedRefreshInterval).
		Msg("configuration loaded")

	return cfg, nil
}

// FromEnv builds a Config from environment variables without touching .env
func FromEnv() *Config {
	return &Config{
		DBDriver:  envOrDefault("DB_DRIVER", DriverSQLite),
		DBPath:    envOrDefault("DB_PATH", "squad.db"),
		DBConnStr: postgresConnString(),

		GRPCPort:    envOrDefault("GRPC_PORT", ":8080"),
		MetricsPort: envOrDefault("METRICS_PORT", ":9090"),
		APIToken:    envOrDefault("API_TOKEN", "dev-token"),
		LogLevel:    envOrDefault("LOG_LEVEL", "info"),

		FeedBaseURL:         envOrDefault("FEED_BASE_URL", "https://fantasy.allsvenskan.se/api"),
		FeedTimeout:         durationEnvOrDefault("FEED_TIMEOUT", 10*time.Second),
		FeedRetryAttempts:   intEnvOrDefault("FEED_RETRY_ATTEMPTS", 3),
		FeedRetryBackoff:    durationEnvOrDefault("FEED_RETRY_BACKOFF", 200*time.Millisecond),
		FeedRefreshInterval: durationEnvOrDefault("FEED_REFRESH_INTERVAL", 15*time.Minute),

		InitialBank:       intEnvOrDefault("INITIAL_BANK", 1000),
		ScoutDefaultDepth: intEnvOrDefault("SCOUT_DEFAULT_DEPTH", 1),
	}
}

// Validate rejects settings the server cannot start with
func (c *Config) Validate() error {
	if c.DBDriver != DriverSQLite && c.DBDriver != DriverPostgres {
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverSQLite, DriverPostgres, c.DBDriver)
	}
	if c.DBDriver == DriverSQLite && c.DBPath == "" {
		return fmt.Errorf("DB_PATH is required for the sqlite driver")
	}
	if c.APIToken == "" {
		return fmt.Errorf("API_TOKEN is required")
	}
	if maxDepth := scout.DefaultConfig().MaxDepth; c.ScoutDefaultDepth < 1 || c.ScoutDefaultDepth > maxDepth {
		return fmt.Errorf("SCOUT_DEFAULT_DEPTH must be between 1 and %d, got %d", maxDepth, c.ScoutDefaultDepth)
	}
	return nil
}

// postgresConnString uses DB_CONN_STR, or builds one from the individual DB_* variables (Docker friendly)
func postgresConnString() string {
	if connStr := envOrDefault("DB_CONN_STR", ""); connStr != "" {
		return connStr
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		envOrDefault("DB_HOST", "localhost"),
		envOrDefault("DB_PORT", "5432"),
		envOrDefault("DB_USER", "postgres"),
		envOrDefault("DB_PASSWORD", "postgres"),
		envOrDefault("DB_NAME", "squad"),
	)
}
