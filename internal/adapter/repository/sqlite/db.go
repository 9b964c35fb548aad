// Package sqlite stores rosters and transfer history in a local SQLite file.
package sqlite

import (
	"database/sql"
	"embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

const (
	maxOpenConns    = 1
	maxIdleConns    = 1
	connMaxLifetime = time.Hour
)

// New opens the database at path, applies the connection pragmas and runs migrations
func New(path string, logger zerolog.Logger) (*sql.DB, error) {
	logger.Info().Str("path", path).Msg("Connecting to SQLite database")

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	// a single connection keeps per-connection pragmas (foreign_keys) in effect
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	if err := applyPragmas(db, logger); err != nil {
		db.Close()
		return nil, err
	}
	if err := runMigrations(db, logger); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func runMigrations(db *sql.DB, logger zerolog.Logger) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to run goose migrations: %w", err)
	}

	logger.Debug().Msg("SQLite migrations completed")
	return nil
}

func applyPragmas(db *sql.DB, logger zerolog.Logger) error {
	pragmas := []struct {
		name  string
		value string
	}{
		{"journal_mode", "WAL"},
		{"synchronous", "NORMAL"},
		{"busy_timeout", "5000"},
		{"foreign_keys", "ON"},
		{"temp_store", "MEMORY"},
	}

	for _, pragma := range pragmas {
		query := fmt.Sprintf("PRAGMA %s = %s", pragma.name, pragma.value)
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to set PRAGMA %s: %w", pragma.name, err)
		}
		logger.Debug().
			Str("pragma", pragma.name).
			Str("value", pragma.value).
			Msg("SQLite pragma set")
	}
	return nil
}
