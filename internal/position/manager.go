// Package position manages gateway-resident open positions: bulk
// liquidation and breakeven stop migration. All reads are fresh queries;
// nothing is cached locally.
package position

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/thanhnguyen0311/mt5-trader/internal/domain"
	"github.com/thanhnguyen0311/mt5-trader/internal/infra"
	"github.com/thanhnguyen0311/mt5-trader/pkg/safe"
)

// Manager performs position-level operations through a gateway.
type Manager struct {
	gw        domain.Gateway
	deviation int // slippage tolerance for closing orders, in points
}

// NewManager creates a position manager.
func NewManager(gw domain.Gateway, deviation int) *Manager {
	return &Manager{gw: gw, deviation: deviation}
}

// CloseResult records the outcome of one close attempt.
type CloseResult struct {
	Ticket  int64
	Ok      bool
	Retcode int
	Comment string
}

// CloseAll market-closes every open position, optionally filtered to one
// symbol. Each position gets exactly one attempt and its outcome is
// independent of the others: partial closure is acceptable, all-or-nothing
// semantics are not wanted here.
func (m *Manager) CloseAll(ctx context.Context, symbol string) ([]CloseResult, error) {
	positions, err := m.gw.Positions(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("fetch positions: %w", err)
	}
	if len(positions) == 0 {
		return nil, nil
	}

	results := make([]CloseResult, 0, len(positions))
	for _, pos := range positions {
		results = append(results, m.closeOne(ctx, pos))
	}
	return results, nil
}

func (m *Manager) closeOne(ctx context.Context, pos domain.Position) CloseResult {
	tick, ok := m.gw.Quote(ctx, pos.Symbol)
	if !ok {
		infra.CountClose("failed")
		return CloseResult{Ticket: pos.Ticket, Comment: "quote unavailable: " + m.gw.LastError()}
	}

	// A long closes by selling at the bid; a short by buying at the ask.
	side := pos.Side.Opposite()
	price := tick.Bid
	if pos.IsShort() {
		price = tick.Ask
	}

	res, ok := m.gw.Send(ctx, domain.TradeRequest{
		Action:    domain.ActionDeal,
		Symbol:    pos.Symbol,
		Side:      side,
		Volume:    pos.Volume,
		Price:     price,
		Deviation: m.deviation,
		Magic:     pos.Magic,
		Comment:   fmt.Sprintf("close #%d", pos.Ticket),
		Filling:   domain.FillIOC,
		Position:  pos.Ticket,
	})
	if !ok {
		infra.CountClose("failed")
		return CloseResult{Ticket: pos.Ticket, Comment: "no result: " + m.gw.LastError()}
	}

	out := CloseResult{
		Ticket:  pos.Ticket,
		Ok:      res.Retcode == domain.RetcodeDone,
		Retcode: res.Retcode,
		Comment: res.Comment,
	}
	if out.Ok {
		infra.CountClose("done")
		slog.Info("position closed",
			slog.Int64("ticket", pos.Ticket),
			slog.String("symbol", pos.Symbol),
			slog.Bool("long", pos.IsLong()),
			slog.Float64("volume", pos.Volume))
	} else {
		infra.CountClose("failed")
		slog.Warn("position close rejected",
			slog.Int64("ticket", pos.Ticket),
			slog.Int("retcode", res.Retcode),
			slog.String("comment", res.Comment))
	}
	return out
}

// MoveToBreakeven migrates the single open position's stop-loss to its
// open price, preserving its take-profit. It acts only when exactly one
// position is open: with several, "breakeven" is ambiguous per position,
// so the call is a no-op. Also a no-op when the stop already sits at the
// open price.
func (m *Manager) MoveToBreakeven(ctx context.Context, symbol string) error {
	positions, err := m.gw.Positions(ctx, symbol)
	if err != nil {
		return fmt.Errorf("fetch positions: %w", err)
	}
	if len(positions) != 1 {
		if len(positions) > 1 {
			slog.Debug("breakeven skipped, multiple positions open",
				slog.Int("count", len(positions)))
		}
		return nil
	}

	pos := positions[0]
	if safe.EqualPrice(pos.StopLoss, pos.OpenPrice) {
		return nil
	}

	res, ok := m.gw.Send(ctx, domain.TradeRequest{
		Action:     domain.ActionModifySLTP,
		Symbol:     pos.Symbol,
		StopLoss:   pos.OpenPrice,
		TakeProfit: pos.TakeProfit,
		Magic:      pos.Magic,
		Position:   pos.Ticket,
	})
	if !ok {
		return fmt.Errorf("breakeven #%d: no result: %s", pos.Ticket, m.gw.LastError())
	}
	if res.Retcode != domain.RetcodeDone {
		return fmt.Errorf("breakeven #%d: retcode=%d %s", pos.Ticket, res.Retcode, res.Comment)
	}

	infra.CountBreakeven()
	slog.Info("stop-loss moved to breakeven",
		slog.Int64("ticket", pos.Ticket),
		slog.String("symbol", pos.Symbol),
		slog.Float64("open", pos.OpenPrice))
	return nil
}
