package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/simaogato/squad-architect-backend/internal/adapter/feed"
	grpcadapter "github.com/simaogato/squad-architect-backend/internal/adapter/grpc"
	"github.com/simaogato/squad-architect-backend/internal/config"
	fxmodules "github.com/simaogato/squad-architect-backend/internal/fx"
	"github.com/simaogato/squad-architect-backend/internal/metrics"
	"github.com/simaogato/squad-architect-backend/internal/usecase/seeder"
)

const shutdownTimeout = 10 * time.Second

func main() {
	fx.New(
		fxmodules.Module,
		fx.Invoke(runServer),
	).Run()
}

func runServer(
	lc fx.Lifecycle,
	cfg *config.Config,
	squadServer *grpcadapter.Server,
	refresher *feed.Refresher,
	rosterSeeder *seeder.RosterSeeder,
	rec *metrics.Recorder,
	logger zerolog.Logger,
) {
	grpcServer := grpclib.NewServer(
		grpclib.ChainUnaryInterceptor(
			grpcadapter.LoggingInterceptor(logger),
			grpcadapter.AuthInterceptor(cfg.APIToken),
		),
	)
	grpcadapter.RegisterSquadServiceServer(grpcServer, squadServer)
	reflection.Register(grpcServer)

	mux := http.NewServeMux()
	mux.Handle("/metrics", rec.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if !refresher.Status().IsReady() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	metricsSrv := &http.Server{
		Addr:              cfg.MetricsPort,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	refreshCtx, stopRefresh := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			created, err := rosterSeeder.Seed(ctx)
			if err != nil {
				return err
			}
			if created {
				logger.Info().Str("roster_id", seeder.DefaultRosterID.String()).Msg("Default roster seeded")
			}

			lis, err := net.Listen("tcp", cfg.GRPCPort)
			if err != nil {
				return err
			}

			refresher.Start(refreshCtx)

			go func() {
				logger.Info().Str("addr", cfg.GRPCPort).Msg("gRPC server listening")
				if err := grpcServer.Serve(lis); err != nil {
					logger.Fatal().Err(err).Msg("gRPC server failed")
				}
			}()
			go func() {
				logger.Info().Str("addr", metricsSrv.Addr).Msg("metrics server listening")
				if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal().Err(err).Msg("metrics server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("shutting down servers")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			grpcServer.GracefulStop()

			stopRefresh()
			if err := refresher.Stop(shutdownCtx); err != nil {
				logger.Warn().Err(err).Msg("feed refresher did not stop in time")
			}

			if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("metrics server shutdown failed")
				return err
			}
			logger.Info().Msg("servers stopped gracefully")
			return nil
		},
	})
}
