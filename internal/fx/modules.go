package fx

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/simaogato/squad-architect-backend/internal/adapter/feed"
	grpcadapter "github.com/simaogato/squad-architect-backend/internal/adapter/grpc"
	"github.com/simaogato/squad-architect-backend/internal/adapter/repository/memory"
	"github.com/simaogato/squad-architect-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/squad-architect-backend/internal/adapter/repository/sqlite"
	"github.com/simaogato/squad-architect-backend/internal/config"
	"github.com/simaogato/squad-architect-backend/internal/domain"
	"github.com/simaogato/squad-architect-backend/internal/logger"
	"github.com/simaogato/squad-architect-backend/internal/metrics"
	"github.com/simaogato/squad-architect-backend/internal/usecase/dashboard"
	"github.com/simaogato/squad-architect-backend/internal/usecase/scout"
	"github.com/simaogato/squad-architect-backend/internal/usecase/seeder"
	"github.com/simaogato/squad-architect-backend/internal/usecase/squad"
	"github.com/simaogato/squad-architect-backend/internal/usecase/transfer"
)

// ProvideConfig loads the configuration and applies its log level
func ProvideConfig(log zerolog.Logger) (*config.Config, error) {
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}
	logger.ApplyLevel(cfg.LogLevel)
	return cfg, nil
}

// ProvideRepositories opens the configured store and closes it on shutdown
func ProvideRepositories(
	lc fx.Lifecycle,
	cfg *config.Config,
	log zerolog.Logger,
) (domain.RosterRepository, domain.TransferRecordRepository, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		db, err := postgres.NewDB(cfg.DBConnStr)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(); err != nil {
			db.Close()
			return nil, nil, err
		}
		lc.Append(fx.Hook{OnStop: func(context.Context) error { return db.Close() }})
		log.Info().Msg("Using postgres storage")
		return postgres.NewRosterRepository(db), postgres.NewTransferRecordRepository(db), nil

	case config.DriverSQLite:
		db, err := sqlite.New(cfg.DBPath, log)
		if err != nil {
			return nil, nil, err
		}
		lc.Append(fx.Hook{OnStop: func(context.Context) error { return db.Close() }})
		log.Info().Str("db_path", cfg.DBPath).Msg("Using sqlite storage")
		return sqlite.NewRosterRepository(db), sqlite.NewTransferRecordRepository(db), nil
	}
	return nil, nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
}

// ProvideCatalogStore starts empty; the feed refresher fills it
func ProvideCatalogStore() *memory.CatalogStore {
	return memory.NewCatalogStore(nil)
}

func ProvideCatalogSource(store *memory.CatalogStore) domain.CatalogSource {
	return store
}

func ProvidePackages() domain.PackageRepository {
	return memory.NewPackageStore()
}

func ProvideFeedClient(cfg *config.Config, rec *metrics.Recorder, log zerolog.Logger) *feed.Client {
	return feed.NewClient(feed.ClientConfig{
		BaseURL:       cfg.FeedBaseURL,
		Timeout:       cfg.FeedTimeout,
		RetryAttempts: cfg.FeedRetryAttempts,
		RetryBackoff:  cfg.FeedRetryBackoff,
	}, rec, log)
}

func ProvideRefresher(client *feed.Client, store *memory.CatalogStore, cfg *config.Config, log zerolog.Logger) *feed.Refresher {
	return feed.NewRefresher(client, store, log, cfg.FeedRefreshInterval)
}

func ProvideScout() *scout.Scout {
	return scout.New(scout.DefaultConfig())
}

func ProvideSquadService(
	rosters domain.RosterRepository,
	records domain.TransferRecordRepository,
	catalog domain.CatalogSource,
	packages domain.PackageRepository,
	executor *transfer.ExecutorService,
	sc *scout.Scout,
	rec *metrics.Recorder,
	log zerolog.Logger,
	cfg *config.Config,
) *squad.Service {
	return squad.NewService(rosters, records, catalog, packages, executor, sc, rec, log, cfg.ScoutDefaultDepth)
}

func ProvideSeeder(rosters domain.RosterRepository, cfg *config.Config) *seeder.RosterSeeder {
	return seeder.NewRosterSeeder(rosters, cfg.InitialBank)
}

func ProvideGRPCServer(squadService *squad.Service, dashboardService *dashboard.DashboardService) *grpcadapter.Server {
	return grpcadapter.NewServer(squadService, dashboardService, seeder.DefaultRosterID)
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(ProvideConfig),
	fx.Provide(metrics.NewRecorder),
	// storage
	fx.Provide(ProvideRepositories),
	fx.Provide(ProvideCatalogStore),
	fx.Provide(ProvideCatalogSource),
	fx.Provide(ProvidePackages),
	// feed
	fx.Provide(ProvideFeedClient),
	fx.Provide(ProvideRefresher),
	// svc
	fx.Provide(ProvideScout),
	fx.Provide(transfer.NewExecutorService),
	fx.Provide(ProvideSquadService),
	fx.Provide(dashboard.NewDashboardService),
	fx.Provide(ProvideSeeder),
	// server
	fx.Provide(ProvideGRPCServer),
)
