package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/couchcryptid/quake-dashboard/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/quake-dashboard/internal/adapter/kafka"
	"github.com/couchcryptid/quake-dashboard/internal/adapter/mapbox"
	redisadapter "github.com/couchcryptid/quake-dashboard/internal/adapter/redis"
	"github.com/couchcryptid/quake-dashboard/internal/adapter/usgs"
	"github.com/couchcryptid/quake-dashboard/internal/config"
	"github.com/couchcryptid/quake-dashboard/internal/domain"
	"github.com/couchcryptid/quake-dashboard/internal/observability"
	"github.com/couchcryptid/quake-dashboard/internal/pipeline"
	"github.com/jonboulle/clockwork"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	// Feed source with the configured cache backend.
	client := usgs.NewClient(cfg.FeedBaseURL, cfg.FeedTimeout, cfg.FeedRetries, metrics, logger)
	var source usgs.Source = client
	var redisCache *redisadapter.FeedCache
	switch cfg.FeedCacheBackend {
	case config.CacheMemory:
		source = usgs.NewCachedSource(client, cfg.FeedCacheSize, cfg.FeedCacheTTL, clockwork.NewRealClock(), metrics)
	case config.CacheRedis:
		redisCache = redisadapter.NewFeedCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.FeedCacheTTL, client, metrics, logger)
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := redisCache.Ping(pingCtx); err != nil {
			logger.Warn("redis unreachable, feeds will be fetched uncached until it recovers", "addr", cfg.RedisAddr, "error", err)
		}
		cancel()
		source = redisCache
	}
	logger.Info("feed source configured", "base_url", cfg.FeedBaseURL, "cache", cfg.FeedCacheBackend, "ttl", cfg.FeedCacheTTL)

	// Initialize geocoder (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		mc := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		geocoder = mapbox.NewCachedGeocoder(mc, cfg.MapboxCacheSize, metrics)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	// Event export (feature-flagged via KAFKA_ENABLED).
	var publisher pipeline.Publisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		publisher = writer
		logger.Info("kafka export enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	p := pipeline.New(source, geocoder, publisher, cfg.MapboxToken, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, p, cfg.RefreshInterval, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	// Warm the feed cache and readiness with the default selection.
	go func() {
		if _, err := p.Refresh(ctx, pipeline.DefaultParams()); err != nil && ctx.Err() == nil {
			logger.Warn("initial refresh failed", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	if redisCache != nil {
		if err := redisCache.Close(); err != nil {
			logger.Error("redis close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
