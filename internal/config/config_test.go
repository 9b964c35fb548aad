package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{
		"DB_DRIVER", "DB_PATH", "DB_CONN_STR", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME",
		"GRPC_PORT", "METRICS_PORT", "API_TOKEN", "LOG_LEVEL",
		"FEED_BASE_URL", "FEED_TIMEOUT", "FEED_RETRY_ATTEMPTS", "FEED_RETRY_BACKOFF", "FEED_REFRESH_INTERVAL",
		"INITIAL_BANK", "SCOUT_DEFAULT_DEPTH",
	} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()

	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "squad.db", cfg.DBPath)
	assert.Equal(t, "host=localhost port=5432 user=postgres password=postgres dbname=squad sslmode=disable", cfg.DBConnStr)
	assert.Equal(t, ":8080", cfg.GRPCPort)
	assert.Equal(t, ":9090", cfg.MetricsPort)
	assert.Equal(t, "dev-token", cfg.APIToken)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "https://fantasy.allsvenskan.se/api", cfg.FeedBaseURL)
	assert.Equal(t, 10*time.Second, cfg.FeedTimeout)
	assert.Equal(t, 3, cfg.FeedRetryAttempts)
	assert.Equal(t, 200*time.Millisecond, cfg.FeedRetryBackoff)
	assert.Equal(t, 15*time.Minute, cfg.FeedRefreshInterval)
	assert.Equal(t, 1000, cfg.InitialBank)
	assert.Equal(t, 1, cfg.ScoutDefaultDepth)
	assert.NoError(t, cfg.Validate())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", DriverPostgres)
	t.Setenv("DB_CONN_STR", "postgres://squad@db/squad")
	t.Setenv("FEED_TIMEOUT", "3s")
	t.Setenv("FEED_RETRY_ATTEMPTS", "5")
	t.Setenv("INITIAL_BANK", "950")
	t.Setenv("SCOUT_DEFAULT_DEPTH", "2")

	cfg := FromEnv()

	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, "postgres://squad@db/squad", cfg.DBConnStr)
	assert.Equal(t, 3*time.Second, cfg.FeedTimeout)
	assert.Equal(t, 5, cfg.FeedRetryAttempts)
	assert.Equal(t, 950, cfg.InitialBank)
	assert.Equal(t, 2, cfg.ScoutDefaultDepth)
}

func TestFromEnv_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("FEED_TIMEOUT", "soon")
	t.Setenv("FEED_REFRESH_INTERVAL", "-1m")
	t.Setenv("FEED_RETRY_ATTEMPTS", "0")
	t.Setenv("INITIAL_BANK", "lots")

	cfg := FromEnv()

	assert.Equal(t, 10*time.Second, cfg.FeedTimeout)
	assert.Equal(t, 15*time.Minute, cfg.FeedRefreshInterval)
	assert.Equal(t, 3, cfg.FeedRetryAttempts)
	assert.Equal(t, 1000, cfg.InitialBank)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "Valid",
			mutate: func(*Config) {},
		},
		{
			name:    "Unknown driver",
			mutate:  func(c *Config) { c.DBDriver = "mysql" },
			wantErr: `DB_DRIVER must be "sqlite" or "postgres", got "mysql"`,
		},
		{
			name:    "Missing sqlite path",
			mutate:  func(c *Config) { c.DBPath = "" },
			wantErr: "DB_PATH is required for the sqlite driver",
		},
		{
			name:    "Missing token",
			mutate:  func(c *Config) { c.APIToken = "" },
			wantErr: "API_TOKEN is required",
		},
		{
			name:   "Deepest search depth",
			mutate: func(c *Config) { c.ScoutDefaultDepth = 5 },
		},
		{
			name:    "Depth beyond search limit",
			mutate:  func(c *Config) { c.ScoutDefaultDepth = 6 },
			wantErr: "SCOUT_DEFAULT_DEPTH must be between 1 and 5, got 6",
		},
		{
			name:    "Zero depth",
			mutate:  func(c *Config) { c.ScoutDefaultDepth = 0 },
			wantErr: "SCOUT_DEFAULT_DEPTH must be between 1 and 5, got 0",
		},
		{
			name:    "Negative depth",
			mutate:  func(c *Config) { c.ScoutDefaultDepth = -2 },
			wantErr: "SCOUT_DEFAULT_DEPTH must be between 1 and 5, got -2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{DBDriver: DriverSQLite, DBPath: "squad.db", APIToken: "token", ScoutDefaultDepth: 1}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestLoad_RejectsInvalidDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")

	cfg, err := Load(zerolog.Nop())

	assert.Error(t, err)
	assert.Nil(t, cfg)
}
