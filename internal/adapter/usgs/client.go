package usgs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/couchcryptid/quake-dashboard/internal/domain"
	"github.com/couchcryptid/quake-dashboard/internal/observability"
	"github.com/couchcryptid/storm-data-shared/retry"
)

const DefaultBaseURL = "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary"

// Client implements pipeline.FeedSource using the USGS GeoJSON summary feeds.
type Client struct {
	httpClient *http.Client
	baseURL    string
	attempts   int
	backoff    time.Duration
	maxBackoff time.Duration
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a feed client. attempts is the total number of tries per
// fetch; failed tries back off exponentially from 200ms up to 5s.
func NewClient(baseURL string, timeout time.Duration, attempts int, metrics *observability.Metrics, logger *slog.Logger) *Client {
	if attempts < 1 {
		attempts = 1
	}
	return &Client{
		httpClient: newHTTPClient(timeout),
		baseURL:    baseURL,
		attempts:   attempts,
		backoff:    200 * time.Millisecond,
		maxBackoff: 5 * time.Second,
		metrics:    metrics,
		logger:     logger,
	}
}

func newHTTPClient(timeout time.Duration) *http.Client {
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 60 * time.Second}).DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: tr}
}

// FeedURL returns the GeoJSON URL for a severity/period selection.
func FeedURL(baseURL string, severity domain.Severity, period domain.Period) string {
	return fmt.Sprintf("%s/%s_%s.geojson", baseURL, severity, period)
}

// Fetch downloads the feed and returns its entries in feed order.
func (c *Client) Fetch(ctx context.Context, severity domain.Severity, period domain.Period) ([]domain.RawEvent, error) {
	if !severity.Valid() {
		return nil, fmt.Errorf("unknown severity %q", severity)
	}
	if !period.Valid() {
		return nil, fmt.Errorf("unknown period %q", period)
	}

	url := FeedURL(c.baseURL, severity, period)
	start := time.Now()
	defer func() { c.metrics.FeedFetchDuration.Observe(time.Since(start).Seconds()) }()

	backoff := c.backoff
	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		events, err := c.fetchOnce(ctx, url)
		if err == nil {
			c.metrics.FeedRequests.WithLabelValues("success").Inc()
			return events, nil
		}
		lastErr = err
		c.metrics.FeedRequests.WithLabelValues("error").Inc()

		if ctx.Err() != nil || !retryable(err) || attempt == c.attempts {
			break
		}
		c.logger.Warn("feed fetch failed, retrying",
			"url", url,
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)
		if !retry.SleepWithContext(ctx, backoff) {
			break
		}
		backoff = retry.NextBackoff(backoff, c.maxBackoff)
	}
	return nil, fmt.Errorf("fetch feed %s_%s: %w", severity, period, lastErr)
}

// statusError is returned for non-200 responses.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("usgs feed error: status %d: %s", e.code, e.body)
}

// retryable reports whether a failed fetch is worth repeating. Client errors
// (4xx other than 429) and malformed payloads are not.
func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code == http.StatusTooManyRequests || se.code >= 500
	}
	var de *decodeError
	return !errors.As(err, &de)
}

func (c *Client) fetchOnce(ctx context.Context, url string) ([]domain.RawEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &statusError{code: resp.StatusCode, body: string(bytes.TrimSpace(body))}
	}

	return Decode(resp.Body)
}

// decodeError wraps a malformed feed payload.
type decodeError struct{ err error }

func (e *decodeError) Error() string { return "decode feed: " + e.err.Error() }
func (e *decodeError) Unwrap() error { return e.err }

// Decode parses a GeoJSON FeatureCollection into raw events. Individual
// fields are kept as text so that nulls and malformed values reach the
// normalizer instead of failing the whole feed.
func Decode(r io.Reader) ([]domain.RawEvent, error) {
	var fc featureCollection
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return nil, &decodeError{err: err}
	}

	events := make([]domain.RawEvent, 0, len(fc.Features))
	for _, f := range fc.Features {
		raw := domain.RawEvent{
			ID:        f.ID,
			Magnitude: rawText(f.Properties.Mag),
			Place:     rawText(f.Properties.Place),
			Time:      parseEpochMillis(rawText(f.Properties.Time)),
		}
		if f.Geometry != nil {
			raw.Longitude = coordinate(f.Geometry.Coordinates, 0)
			raw.Latitude = coordinate(f.Geometry.Coordinates, 1)
			raw.Depth = coordinate(f.Geometry.Coordinates, 2)
		}
		events = append(events, raw)
	}
	return events, nil
}

// rawText returns the literal text of a JSON scalar: strings are unquoted,
// null and absent values become "".
func rawText(v json.RawMessage) string {
	v = bytes.TrimSpace(v)
	if len(v) == 0 || bytes.Equal(v, []byte("null")) {
		return ""
	}
	if v[0] == '"' {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return ""
		}
		return s
	}
	return string(v)
}

func coordinate(coords []json.RawMessage, i int) string {
	if i >= len(coords) {
		return ""
	}
	return rawText(coords[i])
}

func parseEpochMillis(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return time.Time{}
		}
		ms = int64(f)
	}
	return time.UnixMilli(ms).UTC()
}

// GeoJSON feed types.

type featureCollection struct {
	Features []feature `json:"features"`
}

type feature struct {
	ID         string     `json:"id"`
	Properties properties `json:"properties"`
	Geometry   *geometry  `json:"geometry"`
}

type properties struct {
	Mag   json.RawMessage `json:"mag"`
	Place json.RawMessage `json:"place"`
	Time  json.RawMessage `json:"time"`
}

type geometry struct {
	Coordinates []json.RawMessage `json:"coordinates"` // [lon, lat, depth]
}
