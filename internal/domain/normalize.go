package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidRecord marks a feed entry that cannot become an Event.
var ErrInvalidRecord = errors.New("invalid record")

// Normalize converts raw feed entries into events, dropping every entry that
// fails validation. Survivors keep their feed order.
func Normalize(raws []RawEvent) []Event {
	events := make([]Event, 0, len(raws))
	for _, raw := range raws {
		event, err := NormalizeEvent(raw)
		if err != nil {
			continue
		}
		events = append(events, event)
	}
	return events
}

// NormalizeEvent validates a single entry. The returned error wraps
// ErrInvalidRecord and names the offending field.
func NormalizeEvent(raw RawEvent) (Event, error) {
	lon, err := parseFinite("longitude", raw.Longitude)
	if err != nil {
		return Event{}, err
	}
	lat, err := parseFinite("latitude", raw.Latitude)
	if err != nil {
		return Event{}, err
	}
	mag, err := parseNonNegative("magnitude", raw.Magnitude)
	if err != nil {
		return Event{}, err
	}
	depth, err := parseNonNegative("depth", raw.Depth)
	if err != nil {
		return Event{}, err
	}
	if raw.Time.IsZero() {
		return Event{}, fmt.Errorf("%w: time: missing", ErrInvalidRecord)
	}

	return Event{
		ID:        raw.ID,
		Time:      raw.Time.UTC(),
		Longitude: lon,
		Latitude:  lat,
		Place:     strings.TrimSpace(raw.Place),
		Magnitude: mag,
		Depth:     depth,
	}, nil
}

func parseNonNegative(field, s string) (float64, error) {
	v, err := parseFinite(field, s)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: %s: negative value %g", ErrInvalidRecord, field, v)
	}
	if v == 0 {
		v = 0 // drop the sign of -0
	}
	return v, nil
}

// parseFinite parses s as a float64, rejecting empty, non-numeric, NaN and
// infinite values.
func parseFinite(field, s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: %s: missing", ErrInvalidRecord, field)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %q is not numeric", ErrInvalidRecord, field, s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s: %q is not finite", ErrInvalidRecord, field, s)
	}
	return v, nil
}
