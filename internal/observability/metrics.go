package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "quake_dashboard"

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard.
type Metrics struct {
	// Feed metrics.
	FeedRequests      *prometheus.CounterVec // labels: outcome={success,error}
	FeedCache         *prometheus.CounterVec // labels: result={hit,miss}
	FeedFetchDuration prometheus.Histogram

	// Pipeline metrics.
	EventsFetched   prometheus.Counter
	EventsDropped   prometheus.Counter
	EventsDisplayed prometheus.Histogram
	RefreshDuration prometheus.Histogram
	RefreshErrors   prometheus.Counter

	// Export metrics.
	EventsPublished prometheus.Counter
	PublishErrors   prometheus.Counter

	// Geocoding metrics.
	GeocodeRequests *prometheus.CounterVec // labels: outcome={success,error,empty}
	GeocodeCache    *prometheus.CounterVec // labels: result={hit,miss}

	WebsocketClients prometheus.Gauge
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.FeedRequests,
		m.FeedCache,
		m.FeedFetchDuration,
		m.EventsFetched,
		m.EventsDropped,
		m.EventsDisplayed,
		m.RefreshDuration,
		m.RefreshErrors,
		m.EventsPublished,
		m.PublishErrors,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.WebsocketClients,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FeedRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_requests_total",
			Help:      "USGS feed requests by outcome.",
		}, []string{"outcome"}),
		FeedCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_cache_total",
			Help:      "Feed cache lookups by result.",
		}, []string{"result"}),
		FeedFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "feed_fetch_duration_seconds",
			Help:      "Duration of a USGS feed download including retries.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		EventsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_fetched_total",
			Help:      "Total raw feed entries received.",
		}),
		EventsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_dropped_total",
			Help:      "Total feed entries dropped by normalization.",
		}),
		EventsDisplayed: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "events_displayed",
			Help:      "Number of events per dashboard refresh after region filtering.",
			Buckets:   []float64{0, 1, 10, 50, 100, 500, 1000, 5000, 10000},
		}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "refresh_duration_seconds",
			Help:      "Duration of a complete dashboard refresh.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		RefreshErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_errors_total",
			Help:      "Total dashboard refreshes that failed.",
		}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Total events written to the export topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Total failed export batches.",
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Reverse geocoding API requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		WebsocketClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_clients",
			Help:      "Connected live dashboard clients.",
		}),
	}
}
