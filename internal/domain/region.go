package domain

import "fmt"

// BoundingBox is an inclusive latitude/longitude rectangle.
type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
}

// Contains reports whether (lat, lon) lies inside the box, edges included.
func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// Region is a named geographic restriction. A nil Bounds means unrestricted.
type Region struct {
	Name   string       `json:"name"`
	Label  string       `json:"label"`
	Bounds *BoundingBox `json:"bounds,omitempty"`
}

var (
	RegionPuertoRico = Region{
		Name:   "puerto_rico",
		Label:  "Puerto Rico",
		Bounds: &BoundingBox{MinLat: 16.5, MaxLat: 19.0, MinLon: -68.5, MaxLon: -64.0},
	}
	RegionWorld = Region{
		Name:  "world",
		Label: "Mundo",
	}
)

// Regions lists the selectable regions in display order.
var Regions = []Region{RegionPuertoRico, RegionWorld}

// LookupRegion resolves a region by name.
func LookupRegion(name string) (Region, error) {
	for _, r := range Regions {
		if r.Name == name {
			return r, nil
		}
	}
	return Region{}, fmt.Errorf("unknown region %q", name)
}

// FilterRegion returns the events located inside the region, in input order.
// An unrestricted region returns events unchanged. The input is not modified.
func FilterRegion(events []Event, region Region) []Event {
	if region.Bounds == nil {
		return events
	}
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if region.Bounds.Contains(e.Latitude, e.Longitude) {
			out = append(out, e)
		}
	}
	return out
}
