package domain

import (
	"context"
	"log/slog"
)

// FillMissingPlaces reverse-geocodes events that arrived without a place
// name. It returns a new slice; events that already have a place, or whose
// lookup fails or comes back empty, are copied unchanged. A nil geocoder
// returns the input as is.
func FillMissingPlaces(ctx context.Context, events []Event, geocoder Geocoder, logger *slog.Logger) []Event {
	if geocoder == nil {
		return events
	}

	out := make([]Event, len(events))
	copy(out, events)
	for i := range out {
		if out[i].Place != "" {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		result, err := geocoder.ReverseGeocode(ctx, out[i].Latitude, out[i].Longitude)
		if err != nil {
			logger.Warn("reverse geocoding failed",
				"event_id", out[i].ID,
				"lat", out[i].Latitude,
				"lon", out[i].Longitude,
				"error", err,
			)
			continue
		}
		if result.FormattedAddress != "" {
			out[i].Place = result.FormattedAddress
		}
	}
	return out
}
