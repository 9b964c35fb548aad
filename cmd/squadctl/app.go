package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/simaogato/squad-architect-backend/internal/adapter/feed"
	"github.com/simaogato/squad-architect-backend/internal/adapter/repository/memory"
	"github.com/simaogato/squad-architect-backend/internal/adapter/repository/sqlite"
	"github.com/simaogato/squad-architect-backend/internal/config"
	"github.com/simaogato/squad-architect-backend/internal/domain"
	"github.com/simaogato/squad-architect-backend/internal/logger"
	"github.com/simaogato/squad-architect-backend/internal/usecase/dashboard"
	"github.com/simaogato/squad-architect-backend/internal/usecase/scout"
	"github.com/simaogato/squad-architect-backend/internal/usecase/seeder"
	"github.com/simaogato/squad-architect-backend/internal/usecase/squad"
	"github.com/simaogato/squad-architect-backend/internal/usecase/transfer"
)

// options are the persistent flags shared by every command
type options struct {
	dbPath       string
	feedFile     string
	fixturesFile string
	verbose      bool
}

// app is the local single-device session: the SQLite store and a catalog loaded once per run
type app struct {
	cfg    *config.Config
	logger zerolog.Logger
	out    io.Writer

	db        *sql.DB
	catalog   *memory.CatalogStore
	seeder    *seeder.RosterSeeder
	squad     *squad.Service
	dashboard *dashboard.DashboardService
}

func newApp(opts *options, out io.Writer) (*app, error) {
	cfg := config.FromEnv()
	if opts.dbPath != "" {
		cfg.DBPath = opts.dbPath
	}

	level := zerolog.WarnLevel
	if opts.verbose {
		level = zerolog.DebugLevel
	}
	log := logger.SetLevel(level)

	db, err := sqlite.New(cfg.DBPath, log)
	if err != nil {
		return nil, err
	}

	rosters := sqlite.NewRosterRepository(db)
	records := sqlite.NewTransferRecordRepository(db)
	catalog := memory.NewCatalogStore(nil)
	packages := memory.NewPackageStore()
	executor := transfer.NewExecutorService(rosters, records, packages, catalog, nil, log)

	return &app{
		cfg:       cfg,
		logger:    log,
		out:       out,
		db:        db,
		catalog:   catalog,
		seeder:    seeder.NewRosterSeeder(rosters, cfg.InitialBank),
		squad:     squad.NewService(rosters, records, catalog, packages, executor, scout.New(scout.DefaultConfig()), nil, log, cfg.ScoutDefaultDepth),
		dashboard: dashboard.NewDashboardService(rosters, catalog),
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

// loadCatalog reads the feed from files when given, otherwise from the live feed
func (a *app) loadCatalog(ctx context.Context, opts *options) error {
	var (
		catalog *domain.Catalog
		err     error
	)
	if opts.feedFile != "" {
		catalog, err = catalogFromFiles(opts.feedFile, opts.fixturesFile)
	} else {
		client := feed.NewClient(feed.ClientConfig{
			BaseURL:       a.cfg.FeedBaseURL,
			Timeout:       a.cfg.FeedTimeout,
			RetryAttempts: a.cfg.FeedRetryAttempts,
			RetryBackoff:  a.cfg.FeedRetryBackoff,
		}, nil, a.logger)
		catalog, err = client.FetchCatalog(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to load player catalog: %w", err)
	}
	a.catalog.SetCatalog(catalog)
	return nil
}

func catalogFromFiles(bootstrapPath, fixturesPath string) (*domain.Catalog, error) {
	bootstrap, err := os.ReadFile(bootstrapPath)
	if err != nil {
		return nil, err
	}
	var fixtures []byte
	if fixturesPath != "" {
		if fixtures, err = os.ReadFile(fixturesPath); err != nil {
			return nil, err
		}
	}
	return feed.ParseCatalog(bootstrap, fixtures, time.Now())
}
