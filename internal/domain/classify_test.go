package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		mag      float64
		expected Classification
	}{
		{"negative", -0.5, ClassMicro},
		{"zero", 0, ClassMicro},
		{"just below menor", 1.9, ClassMicro},
		{"menor lower bound", 2.0, ClassMenor},
		{"menor upper bound", 3.9, ClassMenor},
		{"ligero lower bound", 4.0, ClassLigero},
		{"ligero upper bound", 4.9, ClassLigero},
		{"moderado", 5.0, ClassModerado},
		{"moderado upper bound", 5.9, ClassModerado},
		{"fuerte", 6.4, ClassFuerte},
		{"mayor", 7.0, ClassMayor},
		{"mayor upper bound", 7.9, ClassMayor},
		{"epico", 8.0, ClassEpico},
		{"epico upper bound", 9.9, ClassEpico},
		{"legendario", 10.0, ClassLegendario},
		{"above scale", 12.3, ClassLegendario},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.mag))
		})
	}
}

// Only values strictly between two bands are rounded to one decimal.
func TestClassify_GapRounding(t *testing.T) {
	tests := []struct {
		name     string
		mag      float64
		expected Classification
	}{
		{"3.95 rounds up", 3.95, ClassLigero},
		{"3.94 rounds down", 3.94, ClassMenor},
		{"1.95 stays micro", 1.95, ClassMicro},
		{"1.99 stays micro", 1.99, ClassMicro},
		{"1.94 stays micro", 1.94, ClassMicro},
		{"10.04 stays legendario", 10.04, ClassLegendario},
		{"4.96 rounds to moderado", 4.96, ClassModerado},
		{"9.95 rounds to legendario", 9.95, ClassLegendario},
		{"9.94 stays epico", 9.94, ClassEpico},
		{"7.949999 stays mayor", 7.949999, ClassMayor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.mag))
		})
	}
}

func TestClassify_NonFinite(t *testing.T) {
	assert.Equal(t, ClassMicro, Classify(math.Inf(-1)))
	assert.Equal(t, ClassLegendario, Classify(math.Inf(1)))
	assert.Equal(t, ClassLegendario, Classify(math.NaN()))
}

func TestClassify_Totality(t *testing.T) {
	known := make(map[Classification]bool, len(Classifications))
	for _, c := range Classifications {
		known[c] = true
	}

	inputs := []float64{
		math.Inf(-1), -math.MaxFloat64, -1, -math.SmallestNonzeroFloat64,
		math.SmallestNonzeroFloat64, math.MaxFloat64, math.Inf(1), math.NaN(),
	}
	for m := -1.0; m <= 11.0; m += 0.01 {
		inputs = append(inputs, m)
	}

	seen := make(map[Classification]bool)
	for _, m := range inputs {
		c := Classify(m)
		assert.True(t, known[c], "magnitude %v classified as unknown label %q", m, c)
		seen[c] = true
	}
	assert.Len(t, seen, len(Classifications), "every label should be reachable")
}

func TestEvent_ClassificationTracksMagnitude(t *testing.T) {
	e := Event{Magnitude: 4.2}
	assert.Equal(t, ClassLigero, e.Classification())

	e.Magnitude = 6.1
	assert.Equal(t, ClassFuerte, e.Classification())
}
