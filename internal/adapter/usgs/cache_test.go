package usgs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/couchcryptid/quake-dashboard/internal/domain"
	"github.com/couchcryptid/quake-dashboard/internal/observability"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mock for cache tests ---

type countingSource struct {
	calls  int
	result []domain.RawEvent
	err    error
}

func (m *countingSource) Fetch(_ context.Context, _ domain.Severity, _ domain.Period) ([]domain.RawEvent, error) {
	m.calls++
	return m.result, m.err
}

func newTestCache(inner Source, clock clockwork.Clock) (*CachedSource, *observability.Metrics) {
	metrics := observability.NewMetricsForTesting()
	return NewCachedSource(inner, 4, time.Minute, clock, metrics), metrics
}

func TestCachedSource_Hit(t *testing.T) {
	inner := &countingSource{result: []domain.RawEvent{{ID: "a"}}}
	cached, metrics := newTestCache(inner, clockwork.NewFakeClock())

	r1, err := cached.Fetch(context.Background(), domain.SeverityAll, domain.PeriodDay)
	require.NoError(t, err)
	r2, err := cached.Fetch(context.Background(), domain.SeverityAll, domain.PeriodDay)
	require.NoError(t, err)

	assert.Equal(t, r1, r2)
	assert.Equal(t, 1, inner.calls, "should only call inner once")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.FeedCache.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.FeedCache.WithLabelValues("miss")))
}

func TestCachedSource_DifferentSelectionsMiss(t *testing.T) {
	inner := &countingSource{}
	cached, _ := newTestCache(inner, clockwork.NewFakeClock())

	_, _ = cached.Fetch(context.Background(), domain.SeverityAll, domain.PeriodDay)
	_, _ = cached.Fetch(context.Background(), domain.SeverityAll, domain.PeriodWeek)
	_, _ = cached.Fetch(context.Background(), domain.Severity4_5, domain.PeriodDay)

	assert.Equal(t, 3, inner.calls)
}

func TestCachedSource_Expires(t *testing.T) {
	clock := clockwork.NewFakeClock()
	inner := &countingSource{}
	cached, _ := newTestCache(inner, clock)

	_, _ = cached.Fetch(context.Background(), domain.SeverityAll, domain.PeriodDay)
	clock.Advance(2 * time.Minute)
	_, _ = cached.Fetch(context.Background(), domain.SeverityAll, domain.PeriodDay)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedSource_ErrorsNotCached(t *testing.T) {
	inner := &countingSource{err: errors.New("feed down")}
	cached, _ := newTestCache(inner, clockwork.NewFakeClock())

	_, err := cached.Fetch(context.Background(), domain.SeverityAll, domain.PeriodDay)
	require.Error(t, err)
	_, err = cached.Fetch(context.Background(), domain.SeverityAll, domain.PeriodDay)
	require.Error(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "feed:significant_month", CacheKey(domain.SeveritySignificant, domain.PeriodMonth))
}
