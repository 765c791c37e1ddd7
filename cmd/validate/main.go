// Command validate checks a USGS GeoJSON feed document against the dashboard's
// data rules: it must decode, normalization must keep only well-formed
// records, every survivor must classify consistently, and each region filter
// must respect its bounds.
//
// Usage:
//
//	go run ./cmd/validate -file internal/adapter/usgs/testdata/all_day.geojson
//	go run ./cmd/validate -file feed.geojson -expect-events 4 -expect-pr 3
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/couchcryptid/quake-dashboard/internal/adapter/usgs"
	"github.com/couchcryptid/quake-dashboard/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// boundaryCases pin the classification table at its band edges.
var boundaryCases = []struct {
	mag  float64
	want domain.Classification
}{
	{1.9, domain.ClassMicro},
	{2.0, domain.ClassMenor},
	{3.9, domain.ClassMenor},
	{3.95, domain.ClassLigero},
	{4.0, domain.ClassLigero},
	{5.0, domain.ClassModerado},
	{6.0, domain.ClassFuerte},
	{7.0, domain.ClassMayor},
	{8.0, domain.ClassEpico},
	{9.9, domain.ClassEpico},
	{10.0, domain.ClassLegendario},
}

func main() {
	file := flag.String("file", "", "path to a GeoJSON feed document")
	expectEvents := flag.Int("expect-events", -1, "expected number of records surviving normalization (-1 to skip)")
	expectPR := flag.Int("expect-pr", -1, "expected number of events inside Puerto Rico (-1 to skip)")
	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(1)
	}

	f, err := os.Open(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	os.Exit(run(f, os.Stdout, *expectEvents, *expectPR)) //nolint:gocritic // exit code carries the result
}

func run(r io.Reader, w io.Writer, expectEvents, expectPR int) int {
	fmt.Fprintln(w, "=== Earthquake Feed Validation ===")
	fmt.Fprintln(w)

	raws, parse := validateParse(r)
	events, normalization := validateNormalization(w, raws, expectEvents)

	phases := []*phase{
		parse,
		normalization,
		validateClassification(events),
		validateRegions(events, expectPR),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Records: %d raw, %d normalized, %d dropped\n", len(raws), len(events), len(raws)-len(events))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(w, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(w, "\nValidation FAILED.")
	return 1
}

// ── Phase 1: parse ──

func validateParse(r io.Reader) ([]domain.RawEvent, *phase) {
	p := &phase{name: "Parse"}

	raws, err := usgs.Decode(r)
	if err != nil {
		p.errorf("%v", err)
		return nil, p
	}
	if len(raws) == 0 {
		p.errorf("feed contains no features")
	}

	seen := make(map[string]int, len(raws))
	for i, raw := range raws {
		if raw.ID == "" {
			continue
		}
		if j, ok := seen[raw.ID]; ok {
			p.errorf("feature %d: duplicate id %q (first at %d)", i, raw.ID, j)
			continue
		}
		seen[raw.ID] = i
	}
	return raws, p
}

// ── Phase 2: normalization ──

func validateNormalization(w io.Writer, raws []domain.RawEvent, expect int) ([]domain.Event, *phase) {
	p := &phase{name: "Normalization"}

	events := domain.Normalize(raws)
	if len(events) > len(raws) {
		p.errorf("normalized %d events from %d records", len(events), len(raws))
	}
	if expect >= 0 && len(events) != expect {
		p.errorf("expected %d normalized events, got %d", expect, len(events))
	}

	reasons := make(map[string]int)
	next := 0
	for i, raw := range raws {
		_, err := domain.NormalizeEvent(raw)
		if err != nil {
			if !errors.Is(err, domain.ErrInvalidRecord) {
				p.errorf("record %d: error does not wrap ErrInvalidRecord: %v", i, err)
			}
			reasons[dropField(err)]++
			continue
		}
		if next >= len(events) || events[next].ID != raw.ID {
			p.errorf("record %d (%q): survivor order not preserved", i, raw.ID)
			continue
		}
		next++
	}

	for i := range events {
		checkNormalized(p, i, &events[i])
	}

	if len(reasons) > 0 {
		fields := make([]string, 0, len(reasons))
		for f := range reasons {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		fmt.Fprintln(w, "  Dropped records by field:")
		for _, f := range fields {
			fmt.Fprintf(w, "    %-12s %d\n", f, reasons[f])
		}
		fmt.Fprintln(w)
	}
	return events, p
}

func checkNormalized(p *phase, i int, e *domain.Event) {
	for name, v := range map[string]float64{
		"latitude":  e.Latitude,
		"longitude": e.Longitude,
		"magnitude": e.Magnitude,
		"depth":     e.Depth,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			p.errorf("event %d (%q): %s is not finite", i, e.ID, name)
		}
	}
	if e.Magnitude < 0 {
		p.errorf("event %d (%q): negative magnitude %g", i, e.ID, e.Magnitude)
	}
	if e.Depth < 0 {
		p.errorf("event %d (%q): negative depth %g", i, e.ID, e.Depth)
	}
	if e.Time.IsZero() {
		p.errorf("event %d (%q): missing time", i, e.ID)
	}
}

// dropField extracts the field name from a normalization error of the form
// "<ErrInvalidRecord>: <field>: <detail>".
func dropField(err error) string {
	msg := strings.TrimPrefix(err.Error(), domain.ErrInvalidRecord.Error()+": ")
	field, _, _ := strings.Cut(msg, ":")
	return field
}

// ── Phase 3: classification ──

func validateClassification(events []domain.Event) *phase {
	p := &phase{name: "Classification"}

	known := make(map[domain.Classification]bool, len(domain.Classifications))
	for _, c := range domain.Classifications {
		known[c] = true
	}
	if len(known) != 8 {
		p.errorf("expected 8 classification labels, have %d", len(known))
	}

	for _, bc := range boundaryCases {
		if got := domain.Classify(bc.mag); got != bc.want {
			p.errorf("classify(%g) = %q, want %q", bc.mag, got, bc.want)
		}
	}

	for i := range events {
		c := events[i].Classification()
		if !known[c] {
			p.errorf("event %d (%q): unknown classification %q", i, events[i].ID, c)
		}
		if c != domain.Classify(events[i].Magnitude) {
			p.errorf("event %d (%q): classification %q disagrees with magnitude %g", i, events[i].ID, c, events[i].Magnitude)
		}
	}
	return p
}

// ── Phase 4: region filter ──

func validateRegions(events []domain.Event, expectPR int) *phase {
	p := &phase{name: "Region filter"}

	for _, r := range domain.Regions {
		filtered := domain.FilterRegion(events, r)
		if len(filtered) > len(events) {
			p.errorf("%s: filter grew the set from %d to %d", r.Name, len(events), len(filtered))
		}
		if r.Bounds == nil {
			if len(filtered) != len(events) {
				p.errorf("%s: unrestricted region dropped %d events", r.Name, len(events)-len(filtered))
			}
			continue
		}
		for _, e := range filtered {
			if !r.Bounds.Contains(e.Latitude, e.Longitude) {
				p.errorf("%s: event %q at (%g, %g) outside bounds", r.Name, e.ID, e.Latitude, e.Longitude)
			}
		}
		if r.Name == domain.RegionPuertoRico.Name && expectPR >= 0 && len(filtered) != expectPR {
			p.errorf("%s: expected %d events, got %d", r.Name, expectPR, len(filtered))
		}
	}
	return p
}
