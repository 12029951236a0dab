// Prometheus metrics for observability.
//
// Exposed series:
//   - mt5_orders_total{side,outcome}      – leg submissions by terminal outcome
//   - mt5_retries_total                   – non-fatal rejections retried
//   - mt5_plans_total{outcome}            – multi-leg plans (completed|aborted)
//   - mt5_rate_limited_total              – signals dropped by the admission window
//   - mt5_signals_total{outcome}          – extracted candidates (accepted|rejected)
//   - mt5_breakeven_moves_total           – stop-loss migrations to entry
//   - mt5_positions_closed_total{outcome} – bulk-close attempts per position
//
// Registered in init() and served by the HTTP listener started in main at
// /metrics.
package infra

import "github.com/prometheus/client_golang/prometheus"

var (
	mtxOrders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mt5_orders_total",
			Help: "Order legs submitted, by side and outcome",
		},
		[]string{"side", "outcome"}, // outcome: done|rejected|fatal
	)

	mtxRetries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mt5_retries_total",
			Help: "Non-fatal order rejections that were retried",
		},
	)

	mtxPlans = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mt5_plans_total",
			Help: "Multi-leg execution plans, by outcome",
		},
		[]string{"outcome"}, // completed|aborted
	)

	mtxRateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mt5_rate_limited_total",
			Help: "Signals dropped by sliding-window admission",
		},
	)

	mtxSignals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mt5_signals_total",
			Help: "OCR signal candidates, by validation outcome",
		},
		[]string{"outcome"}, // accepted|rejected
	)

	mtxBreakeven = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mt5_breakeven_moves_total",
			Help: "Positions whose stop-loss was migrated to entry",
		},
	)

	mtxClosed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mt5_positions_closed_total",
			Help: "Bulk-close attempts, per position outcome",
		},
		[]string{"outcome"}, // done|failed
	)
)

func init() {
	prometheus.MustRegister(
		mtxOrders, mtxRetries, mtxPlans, mtxRateLimited,
		mtxSignals, mtxBreakeven, mtxClosed,
	)
}

// CountOrder records one leg submission outcome (done, rejected, fatal).
func CountOrder(side, outcome string) { mtxOrders.WithLabelValues(side, outcome).Inc() }

// CountRetry records one retried rejection.
func CountRetry() { mtxRetries.Inc() }

// CountPlan records a completed or aborted plan.
func CountPlan(outcome string) { mtxPlans.WithLabelValues(outcome).Inc() }

// CountRateLimited records a signal dropped by the admission window.
func CountRateLimited() { mtxRateLimited.Inc() }

// CountSignal records an accepted or rejected signal candidate.
func CountSignal(outcome string) { mtxSignals.WithLabelValues(outcome).Inc() }

// CountBreakeven records a stop-loss migration.
func CountBreakeven() { mtxBreakeven.Inc() }

// CountClose records one per-position close outcome.
func CountClose(outcome string) { mtxClosed.WithLabelValues(outcome).Inc() }
