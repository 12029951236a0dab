// Package safe provides guarded float64 comparisons for price values.
// Quoted prices come off the wire as floats; equality checks against them
// must tolerate representation noise below the smallest quoting unit.
package safe

import "math"

// PriceEpsilon is well below one point of any supported instrument.
const PriceEpsilon = 1e-9

// EqualPrice reports whether two prices are equal within PriceEpsilon.
func EqualPrice(a, b float64) bool {
	return math.Abs(a-b) < PriceEpsilon
}

// PositivePrice reports whether v is a usable, strictly positive price.
func PositivePrice(v float64) bool {
	return v > PriceEpsilon
}

// StrictlyAscending reports whether xs is strictly increasing.
func StrictlyAscending(xs []float64) bool {
	for i := 1; i < len(xs); i++ {
		if xs[i] <= xs[i-1] {
			return false
		}
	}
	return true
}

// StrictlyDescending reports whether xs is strictly decreasing.
func StrictlyDescending(xs []float64) bool {
	for i := 1; i < len(xs); i++ {
		if xs[i] >= xs[i-1] {
			return false
		}
	}
	return true
}
