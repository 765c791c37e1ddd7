// Command snapshot runs one dashboard refresh and prints the resulting
// Dashboard as JSON. It uses the same pipeline as the server, so the output
// matches what /api/dashboard would return for the same selection.
//
// Usage:
//
//	go run ./cmd/snapshot -severity 2.5 -period week -region world -limit 10
//	go run ./cmd/snapshot -file internal/adapter/usgs/testdata/all_day.geojson -out snapshot.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/couchcryptid/quake-dashboard/internal/adapter/usgs"
	"github.com/couchcryptid/quake-dashboard/internal/domain"
	"github.com/couchcryptid/quake-dashboard/internal/observability"
	"github.com/couchcryptid/quake-dashboard/internal/pipeline"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	defaults := pipeline.DefaultParams()
	severity := flag.String("severity", string(defaults.Severity), "feed severity: all, significant, 4.5, 2.5, 1.0")
	period := flag.String("period", string(defaults.Period), "feed period: day, week, month")
	region := flag.String("region", defaults.Region, "region: puerto_rico, world")
	limit := flag.Int("limit", defaults.Limit, "table rows (5-20)")
	file := flag.String("file", "", "read a local GeoJSON feed instead of fetching")
	baseURL := flag.String("base-url", usgs.DefaultBaseURL, "USGS summary feed base URL")
	timeout := flag.Duration("timeout", 10*time.Second, "feed request timeout")
	out := flag.String("out", "", "output path (default stdout)")
	logLevel := flag.String("log-level", "warn", "log level")
	flag.Parse()

	params := pipeline.Params{
		Severity: domain.Severity(*severity),
		Period:   domain.Period(*period),
		Region:   *region,
		Limit:    *limit,
	}
	if err := params.Validate(); err != nil {
		flag.Usage()
		return err
	}

	logger := observability.NewStderrLogger(*logLevel)
	metrics := observability.NewMetricsForTesting()

	var source pipeline.FeedSource = usgs.NewClient(*baseURL, *timeout, 3, metrics, logger)
	if *file != "" {
		source = fileSource(*file)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p := pipeline.New(source, nil, nil, "", logger, metrics)
	d, err := p.Refresh(ctx, params)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal dashboard: %w", err)
	}
	data = append(data, '\n')

	if *out == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil { //nolint:gosec // output file, not sensitive
		return fmt.Errorf("write %s: %w", *out, err)
	}
	log.Printf("wrote %s: %d events, %d table rows", *out, d.Summary.Count, len(d.Table))
	return nil
}

// fileSource serves a local GeoJSON document regardless of the selection.
type fileSource string

func (f fileSource) Fetch(_ context.Context, _ domain.Severity, _ domain.Period) ([]domain.RawEvent, error) {
	r, err := os.Open(string(f))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return usgs.Decode(r)
}
