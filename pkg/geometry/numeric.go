// Package geometry turns scalars and numeric series into vector geometry for
// small inline charts: ring dash specifications for radial gauges and
// polyline/area paths for sparklines.
//
// Every function here is pure. Callers own rendering; this package only
// produces numbers and SVG path data.
package geometry

import (
	"math"
	"strconv"
	"strings"
)

// Clamp restricts x to [lo, hi]. NaN and ±Inf resolve to lo so an invalid
// value never reaches dash or path geometry.
func Clamp(x, lo, hi float64) float64 {
	if !isFinite(x) {
		return lo
	}
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// SafeDenominator returns max(1, n). Use it wherever a count or a range
// could be zero.
func SafeDenominator(n float64) float64 {
	if !(n >= 1) {
		return 1
	}
	return n
}

// RoundLabel rounds v to the nearest integer for display.
func RoundLabel(v float64) int {
	if !isFinite(v) {
		return 0
	}
	return int(math.Round(v))
}

// FormatNumber formats a coordinate for path data: at most two decimals,
// trailing zeros trimmed.
func FormatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" || s == "" {
		return "0"
	}
	return s
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
