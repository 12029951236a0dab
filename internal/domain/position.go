package domain

// Position is a read-only view of one open position as reported by the
// gateway. Not owned by this process: fetched fresh on every query, no
// local cache.
type Position struct {
	Symbol     string
	Ticket     int64
	Side       Side
	Volume     float64
	OpenPrice  float64
	StopLoss   float64
	TakeProfit float64
	Magic      int64
}

// IsLong checks if the position is a buy.
func (p *Position) IsLong() bool {
	return p.Side == SideBuy
}

// IsShort checks if the position is a sell.
func (p *Position) IsShort() bool {
	return p.Side == SideSell
}
