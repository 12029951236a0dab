package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/thanhnguyen0311/mt5-trader/internal/domain"
	"github.com/thanhnguyen0311/mt5-trader/internal/infra"
)

// LegDefaults carries the per-leg request fields that come from
// configuration rather than from the plan.
type LegDefaults struct {
	Deviation int
	Magic     int64
	Filling   domain.FillPolicy
}

// PlanResult aggregates a multi-leg submission. Legs holds one result per
// attempted leg, in ladder order; AvgFill is meaningful only when
// Completed is true.
type PlanResult struct {
	Legs      []domain.OrderResult
	AvgFill   float64
	Completed bool
}

// ExecutePlan submits one leg per take-profit level, in ladder order,
// each sharing the plan's side, stop-loss and lot size. The first leg that
// fails fatally aborts the remainder; legs already filled stay open — a
// partial ladder is an acceptable position, a compensating rollback would
// itself be a new market risk. When every leg lands, the mean realized
// fill across legs is reported as the aggregate entry price.
func (e *Engine) ExecutePlan(ctx context.Context, plan domain.ExecutionPlan) (PlanResult, error) {
	n := plan.Legs()
	out := PlanResult{Legs: make([]domain.OrderResult, 0, n)}

	for i, tp := range plan.TakeProfits {
		req := domain.OrderRequest{
			Symbol:     plan.Symbol,
			Side:       plan.Side,
			Lot:        plan.Lot,
			StopLoss:   plan.StopLoss,
			TakeProfit: tp,
			Deviation:  e.defaults.Deviation,
			Magic:      e.defaults.Magic,
			Comment:    fmt.Sprintf("leg %d of %d", i+1, n),
			Filling:    e.defaults.Filling,
		}

		res, err := e.SubmitWithRetry(ctx, req)
		if err != nil {
			// Record the failed leg alongside the filled ones so the
			// caller sees exactly how far the ladder got.
			if res == nil {
				res = &domain.OrderResult{Comment: err.Error(), Request: req}
			}
			out.Legs = append(out.Legs, *res)

			infra.CountPlan("aborted")
			slog.Error("leg failed, aborting plan",
				slog.String("symbol", plan.Symbol),
				slog.Int("leg", i+1),
				slog.Int("of", n),
				slog.Any("error", err))
			return out, fmt.Errorf("leg %d of %d: %w", i+1, n, err)
		}

		out.Legs = append(out.Legs, *res)
		slog.Info("leg filled",
			slog.String("symbol", plan.Symbol),
			slog.String("side", string(plan.Side)),
			slog.Int("leg", i+1),
			slog.Int("of", n),
			slog.Float64("fill", res.FillPrice),
			slog.Float64("tp", tp))
	}

	var sum float64
	for _, r := range out.Legs {
		sum += r.FillPrice
	}
	out.AvgFill = sum / float64(n)
	out.Completed = true

	infra.CountPlan("completed")
	slog.Info("plan complete",
		slog.String("symbol", plan.Symbol),
		slog.String("side", string(plan.Side)),
		slog.Int("legs", n),
		slog.Float64("avg_fill", out.AvgFill),
		slog.Float64("sl", plan.StopLoss))
	return out, nil
}
