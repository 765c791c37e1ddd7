package domain

import (
	"encoding/json"
	"time"
)

// Severity selects which magnitude tier of the upstream feed is fetched.
type Severity string

const (
	SeverityAll         Severity = "all"
	SeveritySignificant Severity = "significant"
	Severity4_5         Severity = "4.5"
	Severity2_5         Severity = "2.5"
	Severity1_0         Severity = "1.0"
)

// Severities lists the selectable severities in display order.
var Severities = []Severity{SeverityAll, SeveritySignificant, Severity4_5, Severity2_5, Severity1_0}

// Valid reports whether s is one of the known feed severities.
func (s Severity) Valid() bool {
	switch s {
	case SeverityAll, SeveritySignificant, Severity4_5, Severity2_5, Severity1_0:
		return true
	}
	return false
}

// Period selects the time window of the upstream feed.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// Periods lists the selectable periods in display order.
var Periods = []Period{PeriodMonth, PeriodWeek, PeriodDay}

// Valid reports whether p is one of the known feed periods.
func (p Period) Valid() bool {
	switch p {
	case PeriodDay, PeriodWeek, PeriodMonth:
		return true
	}
	return false
}

// RawEvent is one feed entry before normalization. Numeric fields are kept as
// the text the feed carried; an empty string means the value was missing.
type RawEvent struct {
	ID        string
	Longitude string
	Latitude  string
	Magnitude string
	Depth     string
	Place     string
	Time      time.Time
}

// Event is a validated earthquake record. Its classification is derived from
// Magnitude on demand and is never stored.
type Event struct {
	ID        string
	Time      time.Time
	Longitude float64
	Latitude  float64
	Place     string
	Magnitude float64
	Depth     float64 // km
}

// Classification returns the severity label for the event's magnitude.
func (e Event) Classification() Classification {
	return Classify(e.Magnitude)
}

type eventJSON struct {
	ID             string         `json:"id,omitempty"`
	Time           time.Time      `json:"time"`
	Longitude      float64        `json:"lon"`
	Latitude       float64        `json:"lat"`
	Place          string         `json:"place"`
	Magnitude      float64        `json:"mag"`
	Depth          float64        `json:"depth"`
	Classification Classification `json:"classification"`
}

// MarshalJSON encodes the event together with its derived classification.
func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(eventJSON{
		ID:             e.ID,
		Time:           e.Time,
		Longitude:      e.Longitude,
		Latitude:       e.Latitude,
		Place:          e.Place,
		Magnitude:      e.Magnitude,
		Depth:          e.Depth,
		Classification: e.Classification(),
	})
}

// UnmarshalJSON decodes an event. Any classification in the payload is
// ignored; it is recomputed from the magnitude.
func (e *Event) UnmarshalJSON(data []byte) error {
	var v eventJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*e = Event{
		ID:        v.ID,
		Time:      v.Time,
		Longitude: v.Longitude,
		Latitude:  v.Latitude,
		Place:     v.Place,
		Magnitude: v.Magnitude,
		Depth:     v.Depth,
	}
	return nil
}
