package domain

import "github.com/shopspring/decimal"

// Summary holds the headline statistics for a set of events. The means are
// nil when there are no events.
type Summary struct {
	Count         int      `json:"count"`
	MeanMagnitude *float64 `json:"mean_magnitude,omitempty"`
	MeanDepth     *float64 `json:"mean_depth,omitempty"`
}

// Summarize computes count and mean magnitude/depth, rounded to two decimals.
func Summarize(events []Event) Summary {
	s := Summary{Count: len(events)}
	if len(events) == 0 {
		return s
	}

	var mag, depth float64
	for _, e := range events {
		mag += e.Magnitude
		depth += e.Depth
	}
	n := float64(len(events))
	meanMag := round2(mag / n)
	meanDepth := round2(depth / n)
	s.MeanMagnitude = &meanMag
	s.MeanDepth = &meanDepth
	return s
}

// Head returns at most the first n events.
func Head(events []Event, n int) []Event {
	if n <= 0 {
		return []Event{}
	}
	if n > len(events) {
		n = len(events)
	}
	return events[:n]
}

func round2(v float64) float64 {
	r, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return r
}
