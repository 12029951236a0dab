// Package engine submits execution plans to the broker gateway one leg at
// a time, retrying non-fatal rejections until terminal success or a fatal
// failure.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/thanhnguyen0311/mt5-trader/internal/domain"
	"github.com/thanhnguyen0311/mt5-trader/internal/infra"
)

// RetryPolicy controls the retry wrapper. The zero value is the
// historical behavior: retry non-fatal rejections forever with no delay.
// Setting MaxAttempts bounds the loop; Exponential switches the fixed
// delay for exponential backoff.
type RetryPolicy struct {
	MaxAttempts int // 0 = unbounded
	Delay       time.Duration
	Exponential bool
}

// Engine drives order legs through a gateway. Single-threaded by design:
// no two submissions ever overlap, every gateway call blocks until the
// terminal answers.
type Engine struct {
	gw       domain.Gateway
	policy   RetryPolicy
	defaults LegDefaults

	// allowed restricts which instruments may be traded; a request for
	// anything else is refused before the gateway is touched.
	allowed func(symbol string) bool
}

// New creates an engine. allowed may be nil, which permits every symbol.
func New(gw domain.Gateway, policy RetryPolicy, defaults LegDefaults, allowed func(string) bool) *Engine {
	return &Engine{gw: gw, policy: policy, defaults: defaults, allowed: allowed}
}

// SubmitLeg performs one submission attempt for a single leg. It resolves
// the instrument, makes it tradable if hidden, fetches a fresh tick,
// prices the order from the side of the book matching the request, and
// submits a market order. Success means the gateway answered with the
// canonical done retcode.
//
// On failure the returned error is always a *SubmitError; for a gateway
// rejection the OrderResult is returned alongside it so the caller can
// see the retcode and comment.
func (e *Engine) SubmitLeg(ctx context.Context, req domain.OrderRequest) (*domain.OrderResult, error) {
	if e.allowed != nil && !e.allowed(req.Symbol) {
		return nil, &SubmitError{Kind: KindSymbolBlocked, Detail: req.Symbol}
	}

	info, ok := e.gw.SymbolInfo(ctx, req.Symbol)
	if !ok {
		return nil, &SubmitError{Kind: KindSymbolNotFound, Detail: req.Symbol}
	}

	if !info.Visible {
		if !e.gw.SelectSymbol(ctx, req.Symbol) {
			return nil, &SubmitError{Kind: KindSymbolSelect, Detail: e.gw.LastError()}
		}
	}

	tick, ok := e.gw.Quote(ctx, req.Symbol)
	if !ok {
		return nil, &SubmitError{Kind: KindQuoteUnavailable, Detail: e.gw.LastError()}
	}

	price := tick.Ask
	if req.Side == domain.SideSell {
		price = tick.Bid
	}

	res, ok := e.gw.Send(ctx, domain.TradeRequest{
		Action:     domain.ActionDeal,
		Symbol:     req.Symbol,
		Side:       req.Side,
		Volume:     req.Lot,
		Price:      price,
		StopLoss:   req.StopLoss,
		TakeProfit: req.TakeProfit,
		Deviation:  req.Deviation,
		Magic:      req.Magic,
		Comment:    req.Comment,
		Filling:    req.Filling,
	})
	if !ok {
		return nil, &SubmitError{Kind: KindNoResult, Detail: e.gw.LastError()}
	}

	out := &domain.OrderResult{
		Ok:        res.Retcode == domain.RetcodeDone,
		Retcode:   res.Retcode,
		Comment:   res.Comment,
		Order:     res.Order,
		Deal:      res.Deal,
		FillPrice: res.Price,
		Request:   req,
	}

	if !out.Ok {
		infra.CountOrder(string(req.Side), "rejected")
		return out, &SubmitError{Kind: KindRejected, Retcode: res.Retcode, Detail: res.Comment}
	}

	// The terminal sometimes reports a done deal without a fill price.
	// Substitute the current matching-side quote rather than reporting a
	// zero entry for a live position.
	if out.FillPrice <= 0 {
		if again, ok := e.gw.Quote(ctx, req.Symbol); ok {
			if req.Side == domain.SideSell {
				out.FillPrice = again.Bid
			} else {
				out.FillPrice = again.Ask
			}
		} else {
			slog.Warn("fill price missing and quote re-query failed",
				slog.String("symbol", req.Symbol),
				slog.Int64("deal", out.Deal))
		}
	}

	infra.CountOrder(string(req.Side), "done")
	return out, nil
}

// SubmitWithRetry repeats SubmitLeg until success or a fatal failure.
// Gateway rejections are re-attempted per the policy; everything else
// terminates the loop on the first attempt.
func (e *Engine) SubmitWithRetry(ctx context.Context, req domain.OrderRequest) (*domain.OrderResult, error) {
	attempt := 0
	for {
		res, err := e.SubmitLeg(ctx, req)
		if err == nil {
			return res, nil
		}

		var se *SubmitError
		if !errors.As(err, &se) || se.Fatal() {
			infra.CountOrder(string(req.Side), "fatal")
			return nil, err
		}

		attempt++
		if e.policy.MaxAttempts > 0 && attempt >= e.policy.MaxAttempts {
			return res, fmt.Errorf("retries exhausted after %d attempts: %w", attempt, err)
		}

		infra.CountRetry()
		slog.Info("order rejected, retrying",
			slog.String("symbol", req.Symbol),
			slog.Int("retcode", se.Retcode),
			slog.Int("attempt", attempt))

		delay := e.policy.Delay
		if e.policy.Exponential {
			delay = infra.Backoff(attempt - 1)
		}
		if delay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		} else if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
}
