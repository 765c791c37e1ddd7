package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/quake-dashboard/internal/domain"
	"github.com/couchcryptid/quake-dashboard/internal/observability"
	"github.com/couchcryptid/quake-dashboard/internal/view"
	"github.com/google/uuid"
)

// FeedSource fetches the raw entries of one upstream feed.
type FeedSource interface {
	Fetch(ctx context.Context, severity domain.Severity, period domain.Period) ([]domain.RawEvent, error)
}

// Publisher exports the events displayed by a refresh.
type Publisher interface {
	Publish(ctx context.Context, snapshotID, region string, events []domain.Event) error
}

// Dashboard is the result of one refresh.
type Dashboard struct {
	ID          string         `json:"id"`
	RequestedAt time.Time      `json:"requested_at"`
	Params      Params         `json:"params"`
	Summary     domain.Summary `json:"summary"`
	view.View
}

// Pipeline turns a parameter selection into a Dashboard:
// fetch, normalize, filter, enrich, summarize, assemble.
type Pipeline struct {
	source      FeedSource
	geocoder    domain.Geocoder
	publisher   Publisher
	mapboxToken string
	logger      *slog.Logger
	metrics     *observability.Metrics
	ready       atomic.Bool
}

// New creates a Pipeline. A nil geocoder disables place enrichment and a nil
// publisher disables export.
func New(source FeedSource, geocoder domain.Geocoder, publisher Publisher, mapboxToken string, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		source:      source,
		geocoder:    geocoder,
		publisher:   publisher,
		mapboxToken: mapboxToken,
		logger:      logger,
		metrics:     metrics,
	}
}

// CheckReadiness returns nil once a refresh has succeeded.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no dashboard refresh has succeeded yet")
	}
	return nil
}

// Refresh runs one pass for params. Feed failures are returned; geocoding and
// export failures are logged and do not fail the refresh.
func (p *Pipeline) Refresh(ctx context.Context, params Params) (Dashboard, error) {
	start := time.Now()

	if err := params.Validate(); err != nil {
		return Dashboard{}, err
	}
	region, err := domain.LookupRegion(params.Region)
	if err != nil {
		return Dashboard{}, fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}

	raws, err := p.source.Fetch(ctx, params.Severity, params.Period)
	if err != nil {
		p.metrics.RefreshErrors.Inc()
		return Dashboard{}, fmt.Errorf("refresh dashboard: %w", err)
	}
	p.metrics.EventsFetched.Add(float64(len(raws)))

	events := domain.Normalize(raws)
	if dropped := len(raws) - len(events); dropped > 0 {
		p.metrics.EventsDropped.Add(float64(dropped))
		p.logDropped(ctx, raws)
	}

	events = domain.FilterRegion(events, region)
	events = domain.FillMissingPlaces(ctx, events, p.geocoder, p.logger)

	d := Dashboard{
		ID:          uuid.NewString(),
		RequestedAt: domain.Now(),
		Params:      params,
		Summary:     domain.Summarize(events),
		View:        view.Assemble(events, region, view.Options{MapboxToken: p.mapboxToken, TableSize: params.Limit}),
	}

	p.publish(ctx, d.ID, region.Name, events)

	p.metrics.EventsDisplayed.Observe(float64(len(events)))
	p.metrics.RefreshDuration.Observe(time.Since(start).Seconds())
	p.ready.Store(true)

	p.logger.Info("dashboard refreshed",
		"id", d.ID,
		"severity", params.Severity,
		"period", params.Period,
		"region", region.Name,
		"fetched", len(raws),
		"displayed", len(events),
	)
	return d, nil
}

func (p *Pipeline) publish(ctx context.Context, snapshotID, region string, events []domain.Event) {
	if p.publisher == nil || len(events) == 0 {
		return
	}
	if err := p.publisher.Publish(ctx, snapshotID, region, events); err != nil {
		p.metrics.PublishErrors.Inc()
		p.logger.Warn("publish events failed", "error", err, "snapshot_id", snapshotID, "count", len(events))
		return
	}
	p.metrics.EventsPublished.Add(float64(len(events)))
}

// logDropped logs the reason each invalid record was dropped. The records are
// re-checked only when debug logging is enabled.
func (p *Pipeline) logDropped(ctx context.Context, raws []domain.RawEvent) {
	if !p.logger.Enabled(ctx, slog.LevelDebug) {
		return
	}
	for _, raw := range raws {
		if _, err := domain.NormalizeEvent(raw); err != nil {
			p.logger.Debug("feed record dropped", "id", raw.ID, "reason", err)
		}
	}
}
