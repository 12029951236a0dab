// Package quant holds the price arithmetic used when building execution
// plans. Quotes cross the gateway boundary as float64; the ladder and
// clamp math runs on decimals so that levels like entry + R*1.25 come out
// exact instead of drifting by binary-float residue.
package quant

import "github.com/shopspring/decimal"

// Mid returns the bid/ask midpoint.
func Mid(bid, ask float64) float64 {
	b := decimal.NewFromFloat(bid)
	a := decimal.NewFromFloat(ask)
	mid, _ := b.Add(a).Div(decimal.NewFromInt(2)).Float64()
	return mid
}

// Offset returns price + delta.
func Offset(price, delta float64) float64 {
	out, _ := decimal.NewFromFloat(price).Add(decimal.NewFromFloat(delta)).Float64()
	return out
}

// Distance returns |a - b|.
func Distance(a, b float64) float64 {
	out, _ := decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).Abs().Float64()
	return out
}

// Ladder returns price ± risk*multiple: plus when buy, minus otherwise.
func Ladder(price, risk, multiple float64, buy bool) float64 {
	step := decimal.NewFromFloat(risk).Mul(decimal.NewFromFloat(multiple))
	if !buy {
		step = step.Neg()
	}
	out, _ := decimal.NewFromFloat(price).Add(step).Float64()
	return out
}

// ClampDistance caps price to at most maxDist away from anchor, keeping
// it on the same side of anchor it already sits on.
func ClampDistance(anchor, price, maxDist float64) float64 {
	a := decimal.NewFromFloat(anchor)
	p := decimal.NewFromFloat(price)
	d := decimal.NewFromFloat(maxDist)

	diff := p.Sub(a)
	if diff.Abs().LessThanOrEqual(d) {
		return price
	}
	if diff.IsNegative() {
		d = d.Neg()
	}
	out, _ := a.Add(d).Float64()
	return out
}
