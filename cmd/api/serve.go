package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	agency "github.com/4oBuko/spy-cat-agency-records/internal"
	"github.com/4oBuko/spy-cat-agency-records/internal/config"
	"github.com/4oBuko/spy-cat-agency-records/internal/events"
	"github.com/4oBuko/spy-cat-agency-records/internal/repositories"
	"github.com/4oBuko/spy-cat-agency-records/internal/services"
	"github.com/4oBuko/spy-cat-agency-records/internal/storage"
	"github.com/4oBuko/spy-cat-agency-records/pkg/catapi"
)

func serveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts)
		},
	}
}

func runServe(ctx context.Context, opts *rootOptions) error {
	cfg, logger, err := opts.load()
	if err != nil {
		return err
	}
	defer logger.Sync()

	db, err := storage.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			return err
		}
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Redis.URL != "" {
		rdb, err := events.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			return err
		}
		defer rdb.Close()
		publisher = events.NewRedisPublisher(rdb, cfg.Redis.Stream)
		logger.Info("publishing events", zap.String("stream", cfg.Redis.Stream))
	}

	catRepo := repositories.NewMySQLCatRepository(db.SQL)
	missionRepo := repositories.NewMySQLMissionRepository(db.SQL)
	targetRepo := repositories.NewMySQLTargetRepository(db.SQL)
	serviceOpts := []services.Option{services.WithPublisher(publisher), services.WithLogger(logger)}

	catService := services.NewDefaultCatService(catRepo, newCatAPI(cfg.Registry, logger), serviceOpts...)
	missionService := services.NewDefaultMissionService(missionRepo, targetRepo, catRepo, serviceOpts...)
	targetService := services.NewDefaultTargetService(targetRepo, missionRepo, serviceOpts...)
	server := agency.NewServer(cfg.HTTP, catService, missionService, targetService,
		agency.WithLogger(logger),
		agency.WithHealthCheck(db))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server exited")
	return nil
}

func newCatAPI(cfg config.RegistryConfig, logger *zap.Logger) *catapi.CatAPIClient {
	opts := []catapi.Option{catapi.WithLogger(logger)}
	if cfg.APIKey != "" {
		opts = append(opts, catapi.WithAPIKey(cfg.APIKey))
	}
	return catapi.NewCatAPIClient(cfg.URL, cfg.MaxRetries, cfg.RetryDelay, cfg.Timeout, opts...)
}
