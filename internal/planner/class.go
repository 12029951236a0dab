package planner

import "strings"

// symbolClass groups instruments by quoting magnitude. The stop-loss
// buffer and the maximum allowed stop distance depend on it.
type symbolClass int

const (
	classOther     symbolClass = iota
	classHighPrice             // e.g. BTCUSD variants, quoted in the tens of thousands
	classMetal                 // e.g. XAUUSD variants
)

const (
	highPriceMarker = "BTC"
	metalMarker     = "XAU"

	highPriceMaxDistance = 500
	metalMaxDistance     = 50
)

func classify(symbol string) symbolClass {
	switch {
	case strings.Contains(symbol, highPriceMarker):
		return classHighPrice
	case strings.Contains(symbol, metalMarker):
		return classMetal
	default:
		return classOther
	}
}

// maxDistance returns the widest allowed entry-to-stop distance for the
// class, 0 meaning unclamped.
func (c symbolClass) maxDistance() float64 {
	switch c {
	case classHighPrice:
		return highPriceMaxDistance
	case classMetal:
		return metalMaxDistance
	default:
		return 0
	}
}
