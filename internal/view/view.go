// Package view assembles the chart and table parameters the dashboard page
// renders. It computes everything except the drawing itself: map presets,
// marker sizes, and histogram bins.
package view

import (
	"math"
	"time"

	"github.com/couchcryptid/quake-dashboard/internal/domain"
)

const (
	histogramBins   = 40
	histogramColor  = "red"
	histogramHeight = 400

	mapHeight     = 600
	mapSizeMax    = 10
	mapOpacity    = 0.6
	mapColorScale = "Turbo"

	// StyleMapbox requires an access token; StyleCarto does not.
	StyleMapbox = "dark"
	StyleCarto  = "carto-darkmatter"
)

// Options controls presentation choices that do not come from the events.
type Options struct {
	MapboxToken string
	TableSize   int
}

// View is the complete render model for one dashboard refresh.
type View struct {
	Map                Map            `json:"map"`
	MagnitudeHistogram Histogram      `json:"magnitude_histogram"`
	DepthHistogram     Histogram      `json:"depth_histogram"`
	Table              []domain.Event `json:"table"`
}

// LatLon is a map center.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Map describes a scatter map layer colored and sized by magnitude.
type Map struct {
	Center      LatLon     `json:"center"`
	Zoom        float64    `json:"zoom"`
	Style       string     `json:"style"`
	AccessToken string     `json:"access_token,omitempty"`
	ColorScale  string     `json:"color_scale"`
	ColorRange  [2]float64 `json:"color_range"`
	SizeMax     float64    `json:"size_max"`
	Opacity     float64    `json:"opacity"`
	Height      int        `json:"height"`
	Points      []Point    `json:"points"`
}

// Point is one map marker with its hover fields.
type Point struct {
	Time           time.Time             `json:"time"`
	Place          string                `json:"place"`
	Magnitude      float64               `json:"mag"`
	Depth          float64               `json:"depth"`
	Lat            float64               `json:"lat"`
	Lon            float64               `json:"lon"`
	Classification domain.Classification `json:"classification"`
	Size           float64               `json:"size"`
}

// Histogram is a pre-binned distribution.
type Histogram struct {
	Title  string `json:"title"`
	Field  string `json:"field"`
	Color  string `json:"color"`
	Height int    `json:"height"`
	Bins   []Bin  `json:"bins"`
}

// Bin covers [Start, End); the last bin of a histogram also includes End.
type Bin struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Count int     `json:"count"`
}

type preset struct {
	center LatLon
	zoom   float64
}

var presets = map[string]preset{
	domain.RegionPuertoRico.Name: {center: LatLon{Lat: 18.25178, Lon: -66.254512}, zoom: 7.5},
	domain.RegionWorld.Name:      {center: LatLon{Lat: 10, Lon: 0}, zoom: 1.1},
}

// Assemble builds the view for events already filtered to region.
func Assemble(events []domain.Event, region domain.Region, opts Options) View {
	return View{
		Map:                buildMap(events, region, opts.MapboxToken),
		MagnitudeHistogram: buildHistogram("Histograma de Magnitudes", "mag", events, func(e domain.Event) float64 { return e.Magnitude }),
		DepthHistogram:     buildHistogram("Histograma de Profundidades", "depth", events, func(e domain.Event) float64 { return e.Depth }),
		Table:              domain.Head(events, opts.TableSize),
	}
}

// MarkerSize maps a magnitude to a marker size; negative magnitudes clip to zero.
func MarkerSize(mag float64) float64 {
	return math.Max(mag, 0) + 0.5
}

func buildMap(events []domain.Event, region domain.Region, token string) Map {
	p, ok := presets[region.Name]
	if !ok {
		p = presets[domain.RegionWorld.Name]
	}

	m := Map{
		Center:     p.center,
		Zoom:       p.zoom,
		Style:      StyleCarto,
		ColorScale: mapColorScale,
		ColorRange: [2]float64{0, 7},
		SizeMax:    mapSizeMax,
		Opacity:    mapOpacity,
		Height:     mapHeight,
		Points:     make([]Point, 0, len(events)),
	}
	if token != "" {
		m.Style = StyleMapbox
		m.AccessToken = token
	}

	for _, e := range events {
		m.Points = append(m.Points, Point{
			Time:           e.Time,
			Place:          e.Place,
			Magnitude:      e.Magnitude,
			Depth:          e.Depth,
			Lat:            e.Latitude,
			Lon:            e.Longitude,
			Classification: e.Classification(),
			Size:           MarkerSize(e.Magnitude),
		})
	}
	return m
}

func buildHistogram(title, field string, events []domain.Event, value func(domain.Event) float64) Histogram {
	values := make([]float64, len(events))
	for i, e := range events {
		values[i] = value(e)
	}
	return Histogram{
		Title:  title,
		Field:  field,
		Color:  histogramColor,
		Height: histogramHeight,
		Bins:   Bins(values, histogramBins),
	}
}

// Bins splits values into n equal-width bins spanning [min, max]. All values
// equal yields a single bin; no values yields none.
func Bins(values []float64, n int) []Bin {
	if len(values) == 0 || n < 1 {
		return []Bin{}
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		return []Bin{{Start: lo, End: hi, Count: len(values)}}
	}

	width := (hi - lo) / float64(n)
	bins := make([]Bin, n)
	for i := range bins {
		bins[i].Start = lo + float64(i)*width
		bins[i].End = lo + float64(i+1)*width
	}
	bins[n-1].End = hi

	for _, v := range values {
		i := int((v - lo) / width)
		if i >= n {
			i = n - 1
		}
		bins[i].Count++
	}
	return bins
}
