// Package planner turns a validated stop-loss signal into a risk-managed,
// multi-leg execution plan.
package planner

import (
	"context"
	"errors"
	"fmt"

	"github.com/thanhnguyen0311/mt5-trader/internal/domain"
	"github.com/thanhnguyen0311/mt5-trader/pkg/quant"
	"github.com/thanhnguyen0311/mt5-trader/pkg/safe"
)

var (
	// ErrQuoteUnavailable means the gateway has no tick for the symbol.
	ErrQuoteUnavailable = errors.New("quote unavailable")
	// ErrInvalidQuote means the tick carried a non-positive bid or ask.
	ErrInvalidQuote = errors.New("invalid quote")
	// ErrZeroRisk means entry and final stop-loss coincide, so no ladder
	// can be priced.
	ErrZeroRisk = errors.New("zero risk distance")
)

// Build queries a fresh quote and produces the execution plan for one
// signal: side, buffered and clamped stop-loss, entry reference, and the
// take-profit ladder at the configured risk multiples. Pure apart from the
// single quote lookup; no order is placed here.
func Build(ctx context.Context, gw domain.Gateway, symbol string, rawSL, lot float64, multiples []float64) (domain.ExecutionPlan, error) {
	if len(multiples) == 0 {
		multiples = domain.DefaultRMultiples
	}

	tick, ok := gw.Quote(ctx, symbol)
	if !ok {
		return domain.ExecutionPlan{}, fmt.Errorf("%w: %s (%s)", ErrQuoteUnavailable, symbol, gw.LastError())
	}
	if tick.Bid <= 0 || tick.Ask <= 0 {
		return domain.ExecutionPlan{}, fmt.Errorf("%w: %s bid=%v ask=%v", ErrInvalidQuote, symbol, tick.Bid, tick.Ask)
	}

	reference := tick.Last
	if reference <= 0 {
		reference = quant.Mid(tick.Bid, tick.Ask)
	}

	// Provisional side: it picks the buffer sign and the entry side of the
	// book. The side actually traded is re-derived below from the final
	// stop-loss relative to the true entry price; the two can disagree for
	// signals right at the buffer boundary, and the second derivation wins.
	isBuy := rawSL < reference

	entry := tick.Ask
	if !isBuy {
		entry = tick.Bid
	}

	sl := rawSL
	class := classify(symbol)
	switch class {
	case classHighPrice:
		sl = quant.Offset(sl, -30)
	case classMetal:
		if isBuy {
			sl = quant.Offset(sl, -3)
		} else {
			sl = quant.Offset(sl, +3)
		}
	}
	if maxDist := class.maxDistance(); maxDist > 0 {
		sl = quant.ClampDistance(entry, sl, maxDist)
	}

	risk := quant.Distance(entry, sl)
	if !safe.PositivePrice(risk) {
		return domain.ExecutionPlan{}, fmt.Errorf("%w: %s entry=%v sl=%v", ErrZeroRisk, symbol, entry, sl)
	}

	// Final side, from the stop-loss the trade will actually carry.
	side := domain.SideBuy
	if sl >= entry {
		side = domain.SideSell
	}

	tps := make([]float64, len(multiples))
	for i, m := range multiples {
		tps[i] = quant.Ladder(entry, risk, m, side == domain.SideBuy)
	}

	return domain.ExecutionPlan{
		Symbol:      symbol,
		Side:        side,
		StopLoss:    sl,
		Entry:       entry,
		TakeProfits: tps,
		Lot:         lot,
	}, nil
}
