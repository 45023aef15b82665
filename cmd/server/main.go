package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/vanshika/lottrace/internal/cache"
	"github.com/vanshika/lottrace/internal/config"
	"github.com/vanshika/lottrace/internal/graph"
	"github.com/vanshika/lottrace/internal/logging"
	"github.com/vanshika/lottrace/internal/metrics"
	"github.com/vanshika/lottrace/internal/repository"
	"github.com/vanshika/lottrace/internal/server"
	"github.com/vanshika/lottrace/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)

	graphClient, err := buildGraphClient(ctx, cfg)
	if err != nil {
		logger.Error("failed to create graph client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := graphClient.Close(context.Background()); err != nil {
			logger.Warn("closing graph client failed", "error", err)
		}
	}()

	traceCache, err := buildCache(ctx, logger, cfg.Cache)
	if err != nil {
		logger.Error("failed to connect trace cache", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := traceCache.Close(); err != nil {
			logger.Warn("closing trace cache failed", "error", err)
		}
	}()

	m := metrics.New()
	m.Registry().MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	repo := repository.New(graphClient)
	traceService := service.NewTraceService(repo, service.Options{
		Cache:    traceCache,
		CacheTTL: cfg.Cache.TTL,
		Logger:   logger.With("component", "trace"),
		Metrics:  m,
	})
	apiHandlers := server.NewAPIHandlers(logger, traceService)

	router := server.NewRouter(logger, server.RouterDependencies{
		Health: server.HealthChecks{
			server.GraphHealthService{Client: graphClient},
			server.CacheHealthService{Cache: traceCache},
		},
		API:              apiHandlers,
		Metrics:          m,
		ExposeMetrics:    cfg.HTTP.MetricsEnabled,
		AllowedOrigins:   parseAllowedOrigins(cfg.HTTP.AllowedOriginsCSV),
		AllowCredentials: true,
	})

	srv := server.New(logger, cfg.HTTP, router)

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(runCtx); err != nil {
		logger.Error("server stopped unexpectedly", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func buildGraphClient(ctx context.Context, cfg config.Config) (graph.Client, error) {
	if cfg.Graph.URI == "" {
		return nil, graph.ErrMissingURI
	}

	opts := graph.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	}
	return graph.NewNeo4jClient(ctx, opts)
}

// buildCache returns a Redis cache when an address is configured and a
// no-op cache otherwise.
func buildCache(ctx context.Context, logger *slog.Logger, cfg config.CacheConfig) (cache.Cache, error) {
	if cfg.Addr == "" {
		logger.Info("trace cache disabled")
		return cache.Null{}, nil
	}
	c, err := cache.NewRedis(ctx, cache.RedisOptions{
		Addr:      cfg.Addr,
		Password:  cfg.Password,
		DB:        cfg.DB,
		KeyPrefix: cfg.KeyPrefix,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("trace cache enabled", "addr", cfg.Addr, "ttl", cfg.TTL.String())
	return c, nil
}

func parseAllowedOrigins(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	var origins []string
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		origins = append(origins, origin)
	}
	return origins
}
