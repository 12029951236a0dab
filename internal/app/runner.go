package app

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/thanhnguyen0311/mt5-trader/internal/domain"
	"github.com/thanhnguyen0311/mt5-trader/internal/engine"
	"github.com/thanhnguyen0311/mt5-trader/internal/infra"
	"github.com/thanhnguyen0311/mt5-trader/internal/planner"
	"github.com/thanhnguyen0311/mt5-trader/internal/position"
	"github.com/thanhnguyen0311/mt5-trader/internal/signal"
)

// TextSource supplies one raw text blob per poll cycle. The OCR pipeline
// implements it; tests script it.
type TextSource interface {
	Text(ctx context.Context) (string, error)
}

// tunables are the per-cycle parameters a config reload may change while
// the loop runs.
type tunables struct {
	lot       float64
	validator signal.Validator
	multiples []float64
	interval  time.Duration
}

// Runner drives the polling loop: breakeven step, signal acquisition,
// validation, admission, planning, execution. Strictly single-threaded —
// one cycle at a time, every gateway call blocking.
type Runner struct {
	cfg    *infra.Config
	gw     domain.Gateway
	eng    *engine.Engine
	pos    *position.Manager
	window *infra.RateWindow
	brk    *infra.CircuitBreaker
	source TextSource

	mu  sync.RWMutex
	tun tunables
}

// NewRunner wires the loop from a bootstrapped gateway and config.
func NewRunner(cfg *infra.Config, gw domain.Gateway, source TextSource) *Runner {
	policy := engine.RetryPolicy{
		MaxAttempts: cfg.Trading.Retry.MaxAttempts,
		Delay:       time.Duration(cfg.Trading.Retry.DelayMS) * time.Millisecond,
		Exponential: cfg.Trading.Retry.Exponential,
	}
	defaults := engine.LegDefaults{
		Deviation: cfg.Trading.Deviation,
		Magic:     cfg.Trading.Magic,
		Filling:   domain.FillPolicy(cfg.Trading.Filling),
	}

	r := &Runner{
		cfg:    cfg,
		gw:     gw,
		eng:    engine.New(gw, policy, defaults, cfg.SymbolAllowed),
		pos:    position.NewManager(gw, cfg.Trading.Deviation),
		window: infra.NewRateWindow(cfg.Signal.WindowCap, time.Duration(cfg.Signal.WindowSec)*time.Second),
		brk:    infra.NewCircuitBreaker("gateway", 5, 2, 30*time.Second),
		source: source,
	}
	r.ApplyConfig(cfg)
	return r
}

// ApplyConfig swaps in the reloadable parameters. Safe to call while the
// loop runs; the next cycle picks them up.
func (r *Runner) ApplyConfig(cfg *infra.Config) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tun = tunables{
		lot:       cfg.Trading.Lot,
		validator: signal.Validator{Min: cfg.Signal.SLMin, Max: cfg.Signal.SLMax},
		multiples: cfg.Trading.RMultiples,
		interval:  time.Duration(cfg.Signal.PollIntervalMS) * time.Millisecond,
	}
}

func (r *Runner) tunables() tunables {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tun
}

// Run executes poll cycles until the context is cancelled.
func (r *Runner) Run(ctx context.Context) {
	slog.Info("✨ Polling loop started", slog.String("symbol", r.cfg.Trading.Symbol))

	for {
		r.cycle(ctx)

		select {
		case <-ctx.Done():
			slog.Info("polling loop stopped")
			return
		case <-time.After(r.tunables().interval):
		}
	}
}

// cycle is one full pass of the loop, crash-safe: a panic in any stage is
// logged and the loop carries on with the next cycle.
func (r *Runner) cycle(ctx context.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("🔥 panic recovered in poll cycle", slog.Any("panic", rec))
		}
	}()

	if !r.brk.Allow() {
		slog.Debug("cycle skipped, circuit breaker open")
		return
	}

	symbol := r.cfg.Trading.Symbol
	tun := r.tunables()

	// Keep the open position serviced even when no new signal arrives.
	if err := r.pos.MoveToBreakeven(ctx, symbol); err != nil {
		slog.Warn("breakeven step failed", slog.Any("error", err))
		r.brk.RecordFailure()
		return
	}

	text, err := r.source.Text(ctx)
	if err != nil {
		// Signal-side trouble, not the gateway's: does not trip the
		// breaker.
		slog.Warn("signal source failed", slog.Any("error", err))
		return
	}

	candidate, found := signal.ExtractStopLoss(text)
	if !found {
		return
	}

	if !tun.validator.Validate(candidate) {
		infra.CountSignal("rejected")
		slog.Info("signal rejected by validator",
			slog.String("candidate", candidate),
			slog.Int("min", tun.validator.Min),
			slog.Int("max", tun.validator.Max))
		return
	}
	infra.CountSignal("accepted")

	now := time.Now()
	if !r.window.Admit(now) {
		infra.CountRateLimited()
		slog.Warn("signal dropped, submission window full",
			slog.String("candidate", candidate),
			slog.Int("pending", r.window.Pending(now)))
		return
	}

	// The validator guaranteed the candidate parses.
	n, _ := strconv.Atoi(candidate)
	rawSL := float64(n)
	plan, err := planner.Build(ctx, r.gw, symbol, rawSL, tun.lot, tun.multiples)
	if err != nil {
		if errors.Is(err, planner.ErrQuoteUnavailable) {
			r.brk.RecordFailure()
		}
		slog.Warn("planning failed", slog.Any("error", err))
		return
	}

	slog.Info("plan built",
		slog.String("symbol", plan.Symbol),
		slog.String("side", string(plan.Side)),
		slog.Float64("entry", plan.Entry),
		slog.Float64("sl", plan.StopLoss),
		slog.Int("legs", plan.Legs()))

	if _, err := r.eng.ExecutePlan(ctx, plan); err != nil {
		r.brk.RecordFailure()
		return
	}
	r.brk.RecordSuccess()
}
