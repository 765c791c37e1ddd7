package view

import (
	"testing"
	"time"

	"github.com/couchcryptid/quake-dashboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2025, time.November, 17, 14, 3, 22, 0, time.UTC)

func sampleEvents() []domain.Event {
	return []domain.Event{
		{ID: "a", Time: testTime, Latitude: 18.0, Longitude: -66.9, Magnitude: 2.7, Depth: 10, Place: "Guánica"},
		{ID: "b", Time: testTime, Latitude: 18.5, Longitude: -67.2, Magnitude: 4.1, Depth: 30, Place: "Aguadilla"},
		{ID: "c", Time: testTime, Latitude: 17.9, Longitude: -66.5, Magnitude: 0, Depth: 5},
	}
}

func TestAssemble_PuertoRicoPreset(t *testing.T) {
	v := Assemble(sampleEvents(), domain.RegionPuertoRico, Options{TableSize: 2})

	assert.Equal(t, LatLon{Lat: 18.25178, Lon: -66.254512}, v.Map.Center)
	assert.Equal(t, 7.5, v.Map.Zoom)
	assert.Equal(t, StyleCarto, v.Map.Style)
	assert.Empty(t, v.Map.AccessToken)
	assert.Equal(t, "Turbo", v.Map.ColorScale)
	assert.Equal(t, [2]float64{0, 7}, v.Map.ColorRange)
	assert.Equal(t, 10.0, v.Map.SizeMax)
	assert.Equal(t, 0.6, v.Map.Opacity)
	assert.Equal(t, 600, v.Map.Height)

	require.Len(t, v.Map.Points, 3)
	assert.Equal(t, 3.2, v.Map.Points[0].Size)
	assert.Equal(t, domain.ClassLigero, v.Map.Points[1].Classification)
	assert.Equal(t, 0.5, v.Map.Points[2].Size)

	require.Len(t, v.Table, 2)
	assert.Equal(t, "a", v.Table[0].ID)
	assert.Equal(t, "b", v.Table[1].ID)
}

func TestAssemble_WorldPresetWithToken(t *testing.T) {
	v := Assemble(sampleEvents(), domain.RegionWorld, Options{MapboxToken: "pk.test", TableSize: 5})

	assert.Equal(t, LatLon{Lat: 10, Lon: 0}, v.Map.Center)
	assert.Equal(t, 1.1, v.Map.Zoom)
	assert.Equal(t, StyleMapbox, v.Map.Style)
	assert.Equal(t, "pk.test", v.Map.AccessToken)
	assert.Len(t, v.Table, 3)
}

func TestAssemble_Histograms(t *testing.T) {
	v := Assemble(sampleEvents(), domain.RegionPuertoRico, Options{TableSize: 5})

	assert.Equal(t, "Histograma de Magnitudes", v.MagnitudeHistogram.Title)
	assert.Equal(t, "Histograma de Profundidades", v.DepthHistogram.Title)
	assert.Equal(t, "red", v.MagnitudeHistogram.Color)
	assert.Equal(t, 400, v.DepthHistogram.Height)
	assert.Len(t, v.MagnitudeHistogram.Bins, 40)
	assert.Equal(t, 3, totalCount(v.DepthHistogram.Bins))
}

func TestAssemble_Empty(t *testing.T) {
	v := Assemble(nil, domain.RegionPuertoRico, Options{TableSize: 5})

	assert.NotNil(t, v.Map.Points)
	assert.Empty(t, v.Map.Points)
	assert.Empty(t, v.MagnitudeHistogram.Bins)
	assert.Empty(t, v.DepthHistogram.Bins)
	assert.Empty(t, v.Table)
}

func TestMarkerSize(t *testing.T) {
	assert.Equal(t, 0.5, MarkerSize(-1.2))
	assert.Equal(t, 0.5, MarkerSize(0))
	assert.Equal(t, 5.0, MarkerSize(4.5))
}

func TestBins(t *testing.T) {
	t.Run("equal width spanning min to max", func(t *testing.T) {
		bins := Bins([]float64{0, 1, 2, 3, 4}, 4)
		require.Len(t, bins, 4)
		assert.Equal(t, 0.0, bins[0].Start)
		assert.Equal(t, 1.0, bins[0].End)
		assert.Equal(t, 4.0, bins[3].End)
		assert.Equal(t, []int{1, 1, 1, 2}, counts(bins), "max falls in the last bin")
	})

	t.Run("single value", func(t *testing.T) {
		bins := Bins([]float64{2.5, 2.5, 2.5}, 40)
		require.Len(t, bins, 1)
		assert.Equal(t, Bin{Start: 2.5, End: 2.5, Count: 3}, bins[0])
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, Bins(nil, 40))
	})

	t.Run("every value counted once", func(t *testing.T) {
		values := []float64{0.1, 0.7, 1.3, 2.2, 2.9, 3.05, 4.4, 5.8, 6.1, 7.0}
		assert.Equal(t, len(values), totalCount(Bins(values, 40)))
	})
}

func counts(bins []Bin) []int {
	out := make([]int, len(bins))
	for i, b := range bins {
		out[i] = b.Count
	}
	return out
}

func totalCount(bins []Bin) int {
	n := 0
	for _, b := range bins {
		n += b.Count
	}
	return n
}
