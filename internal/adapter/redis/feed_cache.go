package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/quake-dashboard/internal/adapter/usgs"
	"github.com/couchcryptid/quake-dashboard/internal/domain"
	"github.com/couchcryptid/quake-dashboard/internal/observability"
	goredis "github.com/redis/go-redis/v9"
)

// FeedCache wraps a feed source with a Redis-backed cache so that several
// dashboard replicas share one copy of each feed. Redis failures degrade to
// fetching from the inner source.
type FeedCache struct {
	client  *goredis.Client
	inner   usgs.Source
	ttl     time.Duration
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewFeedCache creates a Redis feed cache decorator.
func NewFeedCache(addr, password string, db int, ttl time.Duration, inner usgs.Source, metrics *observability.Metrics, logger *slog.Logger) *FeedCache {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &FeedCache{client: client, inner: inner, ttl: ttl, metrics: metrics, logger: logger}
}

// Ping verifies the Redis connection.
func (c *FeedCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *FeedCache) Fetch(ctx context.Context, severity domain.Severity, period domain.Period) ([]domain.RawEvent, error) {
	key := usgs.CacheKey(severity, period)

	raws, err := c.get(ctx, key)
	switch {
	case err == nil:
		c.metrics.FeedCache.WithLabelValues("hit").Inc()
		return raws, nil
	case errors.Is(err, goredis.Nil):
	default:
		c.logger.Warn("redis feed cache read failed", "key", key, "error", err)
	}
	c.metrics.FeedCache.WithLabelValues("miss").Inc()

	raws, err = c.inner.Fetch(ctx, severity, period)
	if err != nil {
		return nil, err
	}
	if err := c.put(ctx, key, raws); err != nil {
		c.logger.Warn("redis feed cache write failed", "key", key, "error", err)
	}
	return raws, nil
}

func (c *FeedCache) Close() error {
	return c.client.Close()
}

func (c *FeedCache) get(ctx context.Context, key string) ([]domain.RawEvent, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}
	return decodeFeed(data)
}

func (c *FeedCache) put(ctx context.Context, key string, raws []domain.RawEvent) error {
	data, err := encodeFeed(raws)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

func encodeFeed(raws []domain.RawEvent) ([]byte, error) {
	data, err := json.Marshal(raws)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal feed: %w", err)
	}
	return data, nil
}

func decodeFeed(data []byte) ([]domain.RawEvent, error) {
	var raws []domain.RawEvent
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("failed to unmarshal feed: %w", err)
	}
	return raws, nil
}
