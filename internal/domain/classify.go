package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// Classification is the descriptive severity label derived from magnitude.
type Classification string

const (
	ClassMicro      Classification = "micro"
	ClassMenor      Classification = "menor"
	ClassLigero     Classification = "ligero"
	ClassModerado   Classification = "moderado"
	ClassFuerte     Classification = "fuerte"
	ClassMayor      Classification = "mayor"
	ClassEpico      Classification = "épico"
	ClassLegendario Classification = "legendario"
)

// Classifications lists every label from weakest to strongest.
var Classifications = []Classification{
	ClassMicro, ClassMenor, ClassLigero, ClassModerado,
	ClassFuerte, ClassMayor, ClassEpico, ClassLegendario,
}

// band is a closed magnitude interval [lo, hi].
type band struct {
	lo, hi float64
	class  Classification
}

var bands = []band{
	{2, 3.9, ClassMenor},
	{4, 4.9, ClassLigero},
	{5, 5.9, ClassModerado},
	{6, 6.9, ClassFuerte},
	{7, 7.9, ClassMayor},
	{8, 9.9, ClassEpico},
}

// Classify maps a magnitude to its label. It is total over float64: anything
// below 2 (including -Inf) is micro, and a finite value that falls strictly
// between two bands is rounded to one decimal before a second lookup. Values
// matching no band, +Inf and NaN among them, are legendario.
func Classify(m float64) Classification {
	if m < 2 {
		return ClassMicro
	}
	if c, ok := lookupBand(m); ok {
		return c
	}
	if !math.IsNaN(m) && !math.IsInf(m, 0) {
		if c, ok := lookupBand(roundMagnitude(m)); ok {
			return c
		}
	}
	return ClassLegendario
}

func lookupBand(m float64) (Classification, bool) {
	for _, b := range bands {
		if b.lo <= m && m <= b.hi {
			return b.class, true
		}
	}
	return "", false
}

// roundMagnitude rounds half away from zero to one decimal place, working on
// the shortest decimal representation of m rather than its binary value.
func roundMagnitude(m float64) float64 {
	r, _ := decimal.NewFromFloat(m).Round(1).Float64()
	return r
}
