package domain

// Side is the direction of a market order.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Opposite returns the closing side for this side.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// FillPolicy mirrors the terminal's order filling modes.
type FillPolicy string

const (
	FillFOK    FillPolicy = "FOK"
	FillIOC    FillPolicy = "IOC"
	FillReturn FillPolicy = "RETURN"
)

// TradeAction selects what a TradeRequest does at the terminal.
type TradeAction string

const (
	// ActionDeal places an immediate market order.
	ActionDeal TradeAction = "DEAL"
	// ActionModifySLTP changes stop-loss/take-profit of an open position.
	ActionModifySLTP TradeAction = "SLTP"
)

// RetcodeDone is the terminal's canonical "request completed" return code.
const RetcodeDone = 10009

// OrderRequest describes one market-order leg. Immutable once built;
// owned by the call that submits it.
type OrderRequest struct {
	Symbol     string
	Side       Side
	Lot        float64
	StopLoss   float64
	TakeProfit float64
	Deviation  int // max slippage in points
	Magic      int64
	Comment    string
	Filling    FillPolicy
}

// TradeRequest is the raw request shape sent to the gateway. The engine
// derives it from an OrderRequest after resolving the execution price;
// the position manager builds it directly for closes and SL/TP moves.
type TradeRequest struct {
	Action     TradeAction
	Symbol     string
	Side       Side
	Volume     float64
	Price      float64
	StopLoss   float64
	TakeProfit float64
	Deviation  int
	Magic      int64
	Comment    string
	Filling    FillPolicy
	Position   int64 // ticket of the position being closed/modified, 0 otherwise
}

// TradeResult is the gateway's answer to a single TradeRequest.
type TradeResult struct {
	Retcode int
	Comment string
	Order   int64
	Deal    int64
	Price   float64 // realized fill price, 0 when the terminal omits it
}

// OrderResult records the outcome of one submission attempt. Produced once
// per attempt and never mutated; a retry produces a new OrderResult.
type OrderResult struct {
	Ok        bool
	Retcode   int
	Comment   string
	Order     int64
	Deal      int64
	FillPrice float64
	Request   OrderRequest
}
