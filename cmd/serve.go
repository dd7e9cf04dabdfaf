package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"sync"
	"syscall"

	"github.com/UnknownOlympus/compass/internal/cache"
	"github.com/UnknownOlympus/compass/internal/config"
	"github.com/UnknownOlympus/compass/internal/events"
	"github.com/UnknownOlympus/compass/internal/metrics"
	"github.com/UnknownOlympus/compass/internal/repository"
	"github.com/UnknownOlympus/compass/internal/routing"
	"github.com/UnknownOlympus/compass/internal/server"
	"github.com/UnknownOlympus/compass/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the map API and the background route refresher",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Canceled on Ctrl+C or SIGTERM for a graceful shutdown.
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg := config.MustLoad()
			logger := setupLogger(cfg.Env)

			return serve(ctx, cfg, logger)
		},
	}
}

// backgroundRunner is a loop that runs until its context is canceled.
type backgroundRunner interface {
	Run(ctx context.Context)
}

// runServices runs background next to serveHTTP and returns once both have
// stopped, so the resources they share can be closed afterwards.
func runServices(ctx context.Context, background backgroundRunner, serveHTTP func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		background.Run(ctx)
	}()

	err := serveHTTP(ctx)

	cancel()
	wg.Wait()

	return err
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	dtb, err := repository.NewDatabase(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		return fmt.Errorf("failed to connect to DB: %w", err)
	}
	defer dtb.Close()

	repo := repository.NewRepository(dtb, logger)

	// A nil interface disables caching; a typed nil pointer would not.
	var routeCache service.RouteCache
	if cfg.Cache.Addr != "" {
		valkeyCache, cacheErr := cache.NewRouteCache(cfg.Cache.Addr)
		if cacheErr != nil {
			return fmt.Errorf("failed to connect to route cache: %w", cacheErr)
		}
		defer valkeyCache.Close()
		routeCache = valkeyCache
		logger.InfoContext(ctx, "Route cache enabled", "addr", cfg.Cache.Addr, "ttl", cfg.Cache.TTL)
	}

	var publisher interface {
		service.EventPublisher
		Close()
	} = events.Noop{}
	if cfg.NATSURL != "" {
		natsPublisher, natsErr := events.NewPublisher(cfg.NATSURL)
		if natsErr != nil {
			return fmt.Errorf("failed to connect to NATS: %w", natsErr)
		}
		publisher = natsPublisher
		logger.InfoContext(ctx, "Route events enabled", "url", cfg.NATSURL)
	}
	defer publisher.Close()

	provider, err := routing.NewProvider(routing.ProviderConfig{
		Type:      routing.ProviderType(cfg.Routing.Provider),
		BaseURL:   cfg.Routing.BaseURL,
		APIKey:    cfg.Routing.APIKey,
		RateLimit: cfg.Routing.RateLimit,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create routing provider: %w", err)
	}
	logger.InfoContext(ctx, "Routing provider initialized", "type", cfg.Routing.Provider)

	mapService := service.NewMapService(
		logger,
		repo,
		provider,
		cfg.Routing.Provider, // Provider name for metrics
		routeCache,
		appMetrics,
		cfg.Padding,
		cfg.Cache.TTL,
	)
	refresher := service.NewRouteRefresher(
		logger,
		repo,
		provider,
		cfg.Routing.Provider,
		routeCache,
		publisher,
		appMetrics,
		cfg.Workers,
		cfg.Interval,
		cfg.Cache.TTL,
	)

	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	httpServer := server.New(logger, mapService, dtb, reg)
	if err = runServices(ctx, refresher, func(ctx context.Context) error {
		return httpServer.Run(ctx, cfg.Port)
	}); err != nil {
		return err
	}

	logger.InfoContext(ctx, "Application stopped gracefully.")

	return nil
}
