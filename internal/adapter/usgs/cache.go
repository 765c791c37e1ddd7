package usgs

import (
	"context"
	"time"

	"github.com/couchcryptid/quake-dashboard/internal/domain"
	"github.com/couchcryptid/quake-dashboard/internal/lru"
	"github.com/couchcryptid/quake-dashboard/internal/observability"
	"github.com/jonboulle/clockwork"
)

// Source is the feed contract shared by the client and its cache decorators.
type Source interface {
	Fetch(ctx context.Context, severity domain.Severity, period domain.Period) ([]domain.RawEvent, error)
}

// CachedSource wraps a Source with an in-memory LRU cache of raw feeds.
// USGS regenerates summary feeds about once a minute, so a short TTL keeps
// repeated dashboard interactions from refetching the same document.
type CachedSource struct {
	inner   Source
	cache   *lru.Cache[string, []domain.RawEvent]
	metrics *observability.Metrics
}

// NewCachedSource creates a cache decorator around a feed source.
func NewCachedSource(inner Source, maxEntries int, ttl time.Duration, clock clockwork.Clock, metrics *observability.Metrics) *CachedSource {
	return &CachedSource{
		inner:   inner,
		cache:   lru.New[string, []domain.RawEvent](maxEntries, ttl, clock),
		metrics: metrics,
	}
}

func (c *CachedSource) Fetch(ctx context.Context, severity domain.Severity, period domain.Period) ([]domain.RawEvent, error) {
	key := CacheKey(severity, period)
	if raws, ok := c.cache.Get(key); ok {
		c.metrics.FeedCache.WithLabelValues("hit").Inc()
		return raws, nil
	}
	c.metrics.FeedCache.WithLabelValues("miss").Inc()

	raws, err := c.inner.Fetch(ctx, severity, period)
	if err != nil {
		return nil, err
	}
	c.cache.Put(key, raws)
	return raws, nil
}

// CacheKey identifies a feed selection in any cache backend.
func CacheKey(severity domain.Severity, period domain.Period) string {
	return "feed:" + string(severity) + "_" + string(period)
}
