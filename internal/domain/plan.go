package domain

// DefaultRMultiples is the take-profit ladder expressed in multiples of
// the initial risk distance.
var DefaultRMultiples = []float64{1.25, 2.5, 4.0}

// ExecutionPlan is the risk-managed, multi-leg order plan built from one
// signal. Built once, immutable; the engine produces one OrderRequest per
// take-profit level.
//
// TakeProfits are ordered away from Entry in the direction implied by
// Side: ascending for BUY, descending for SELL.
type ExecutionPlan struct {
	Symbol      string
	Side        Side
	StopLoss    float64 // finalized (buffered, clamped) stop-loss
	Entry       float64 // entry reference price (ask for BUY, bid for SELL)
	TakeProfits []float64
	Lot         float64 // applied identically to every leg
}

// Legs returns the number of order legs the plan produces.
func (p *ExecutionPlan) Legs() int {
	return len(p.TakeProfits)
}
