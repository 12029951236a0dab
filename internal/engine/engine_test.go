package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/thanhnguyen0311/mt5-trader/internal/domain"
	"github.com/thanhnguyen0311/mt5-trader/internal/execution"
)

func paperWithSymbol(symbol string, bid, ask float64) *execution.PaperGateway {
	gw := execution.NewPaperGateway()
	gw.AddSymbol(symbol, true, true)
	gw.SetQuote(symbol, bid, ask, 0)
	return gw
}

func legRequest(symbol string, side domain.Side) domain.OrderRequest {
	return domain.OrderRequest{
		Symbol:     symbol,
		Side:       side,
		Lot:        0.01,
		StopLoss:   4950,
		TakeProfit: 5100,
		Deviation:  20,
		Magic:      1001,
		Filling:    domain.FillIOC,
	}
}

func TestSubmitLeg_PricesFromMatchingSide(t *testing.T) {
	gw := paperWithSymbol("XAUUSDm", 5000, 5001)
	eng := New(gw, RetryPolicy{}, LegDefaults{}, nil)

	res, err := eng.SubmitLeg(context.Background(), legRequest("XAUUSDm", domain.SideBuy))
	if err != nil {
		t.Fatalf("buy leg failed: %v", err)
	}
	if res.FillPrice != 5001 {
		t.Errorf("buy fill = %v, want ask 5001", res.FillPrice)
	}

	res, err = eng.SubmitLeg(context.Background(), legRequest("XAUUSDm", domain.SideSell))
	if err != nil {
		t.Fatalf("sell leg failed: %v", err)
	}
	if res.FillPrice != 5000 {
		t.Errorf("sell fill = %v, want bid 5000", res.FillPrice)
	}
}

func TestSubmitLeg_SelectsHiddenSymbol(t *testing.T) {
	gw := execution.NewPaperGateway()
	gw.AddSymbol("XAUUSDm", false, true)
	gw.SetQuote("XAUUSDm", 5000, 5001, 0)
	eng := New(gw, RetryPolicy{}, LegDefaults{}, nil)

	if _, err := eng.SubmitLeg(context.Background(), legRequest("XAUUSDm", domain.SideBuy)); err != nil {
		t.Fatalf("leg against hidden symbol failed: %v", err)
	}
	info, _ := gw.SymbolInfo(context.Background(), "XAUUSDm")
	if !info.Visible {
		t.Error("symbol should have been made visible before the order")
	}
}

func TestSubmitLeg_FatalKinds(t *testing.T) {
	tests := []struct {
		name  string
		setup func() (*execution.PaperGateway, func(string) bool)
		kind  FailKind
		sends int
	}{
		{
			name: "blocked symbol",
			setup: func() (*execution.PaperGateway, func(string) bool) {
				return paperWithSymbol("XAUUSDm", 5000, 5001), func(string) bool { return false }
			},
			kind: KindSymbolBlocked,
		},
		{
			name: "symbol not found",
			setup: func() (*execution.PaperGateway, func(string) bool) {
				return execution.NewPaperGateway(), nil
			},
			kind: KindSymbolNotFound,
		},
		{
			name: "select fails",
			setup: func() (*execution.PaperGateway, func(string) bool) {
				gw := execution.NewPaperGateway()
				gw.AddSymbol("XAUUSDm", false, false)
				return gw, nil
			},
			kind: KindSymbolSelect,
		},
		{
			name: "quote unavailable",
			setup: func() (*execution.PaperGateway, func(string) bool) {
				gw := execution.NewPaperGateway()
				gw.AddSymbol("XAUUSDm", true, true)
				return gw, nil
			},
			kind: KindQuoteUnavailable,
		},
		{
			name: "no result",
			setup: func() (*execution.PaperGateway, func(string) bool) {
				gw := paperWithSymbol("XAUUSDm", 5000, 5001)
				gw.DropResults(true)
				return gw, nil
			},
			kind:  KindNoResult,
			sends: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw, allowed := tt.setup()
			eng := New(gw, RetryPolicy{}, LegDefaults{}, allowed)

			res, err := eng.SubmitLeg(context.Background(), legRequest("XAUUSDm", domain.SideBuy))
			if res != nil {
				t.Errorf("result = %+v, want nil", res)
			}
			var se *SubmitError
			if !errors.As(err, &se) {
				t.Fatalf("err = %v, want *SubmitError", err)
			}
			if se.Kind != tt.kind {
				t.Errorf("kind = %v, want %v", se.Kind, tt.kind)
			}
			if !se.Fatal() {
				t.Error("environment failures must be fatal")
			}
			if got := len(gw.Sent()); got != tt.sends {
				t.Errorf("sends = %d, want %d", got, tt.sends)
			}
		})
	}
}

func TestSubmitLeg_RejectionIsNotFatal(t *testing.T) {
	gw := paperWithSymbol("XAUUSDm", 5000, 5001)
	gw.ScriptRetcodes(10013)
	eng := New(gw, RetryPolicy{}, LegDefaults{}, nil)

	res, err := eng.SubmitLeg(context.Background(), legRequest("XAUUSDm", domain.SideBuy))
	var se *SubmitError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *SubmitError", err)
	}
	if se.Fatal() {
		t.Error("a gateway rejection must not be fatal")
	}
	if se.Retcode != 10013 {
		t.Errorf("retcode = %d, want 10013", se.Retcode)
	}
	if res == nil || res.Ok {
		t.Fatalf("result = %+v, want a non-ok result alongside the error", res)
	}
}

func TestSubmitLeg_ZeroFillFallsBackToQuote(t *testing.T) {
	gw := paperWithSymbol("XAUUSDm", 5000, 5001)
	gw.ZeroFill(true)
	eng := New(gw, RetryPolicy{}, LegDefaults{}, nil)

	res, err := eng.SubmitLeg(context.Background(), legRequest("XAUUSDm", domain.SideBuy))
	if err != nil {
		t.Fatalf("leg failed: %v", err)
	}
	if res.FillPrice != 5001 {
		t.Errorf("fill = %v, want re-queried ask 5001", res.FillPrice)
	}
}

func TestSubmitWithRetry_StopsOnFatal(t *testing.T) {
	gw := paperWithSymbol("XAUUSDm", 5000, 5001)
	gw.DropResults(true)
	eng := New(gw, RetryPolicy{}, LegDefaults{}, nil)

	_, err := eng.SubmitWithRetry(context.Background(), legRequest("XAUUSDm", domain.SideBuy))
	if err == nil {
		t.Fatal("want error")
	}
	if got := len(gw.Sent()); got != 1 {
		t.Errorf("sends = %d, want exactly 1 (no retry after a fatal failure)", got)
	}
}

func TestSubmitWithRetry_RetriesRejectionsUntilDone(t *testing.T) {
	gw := paperWithSymbol("XAUUSDm", 5000, 5001)
	gw.ScriptRetcodes(10013, 10013) // two rejections, then done
	eng := New(gw, RetryPolicy{}, LegDefaults{}, nil)

	res, err := eng.SubmitWithRetry(context.Background(), legRequest("XAUUSDm", domain.SideBuy))
	if err != nil {
		t.Fatalf("want eventual success, got %v", err)
	}
	if !res.Ok {
		t.Error("final result should be ok")
	}
	if got := len(gw.Sent()); got != 3 {
		t.Errorf("sends = %d, want 3", got)
	}
}

func TestSubmitWithRetry_BoundedGivesUp(t *testing.T) {
	gw := paperWithSymbol("XAUUSDm", 5000, 5001)
	gw.ScriptRetcodes(10013, 10013, 10013)
	eng := New(gw, RetryPolicy{MaxAttempts: 2}, LegDefaults{}, nil)

	res, err := eng.SubmitWithRetry(context.Background(), legRequest("XAUUSDm", domain.SideBuy))
	if err == nil {
		t.Fatal("want retries-exhausted error")
	}
	if !strings.Contains(err.Error(), "retries exhausted") {
		t.Errorf("err = %v, want retries exhausted", err)
	}
	if res == nil || res.Retcode != 10013 {
		t.Errorf("result = %+v, want last rejection retcode 10013", res)
	}
	if got := len(gw.Sent()); got != 2 {
		t.Errorf("sends = %d, want 2", got)
	}
}

func TestSubmitWithRetry_CancelledContext(t *testing.T) {
	gw := paperWithSymbol("XAUUSDm", 5000, 5001)
	gw.ScriptRetcodes(10013, 10013, 10013, 10013)
	eng := New(gw, RetryPolicy{}, LegDefaults{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := eng.SubmitWithRetry(ctx, legRequest("XAUUSDm", domain.SideBuy))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func triLegPlan() domain.ExecutionPlan {
	return domain.ExecutionPlan{
		Symbol:      "XAUUSDm",
		Side:        domain.SideBuy,
		StopLoss:    4951,
		Entry:       5001,
		TakeProfits: []float64{5063.5, 5126, 5201},
		Lot:         0.01,
	}
}

func TestExecutePlan_AllLegsFill(t *testing.T) {
	gw := paperWithSymbol("XAUUSDm", 5000, 5001)
	eng := New(gw, RetryPolicy{}, LegDefaults{Deviation: 20, Magic: 1001, Filling: domain.FillIOC}, nil)

	res, err := eng.ExecutePlan(context.Background(), triLegPlan())
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}
	if !res.Completed {
		t.Error("plan should be completed")
	}
	if len(res.Legs) != 3 {
		t.Fatalf("legs = %d, want 3", len(res.Legs))
	}
	if res.AvgFill != 5001 {
		t.Errorf("avg fill = %v, want 5001", res.AvgFill)
	}

	sent := gw.Sent()
	for i, req := range sent {
		if req.StopLoss != 4951 {
			t.Errorf("leg %d stop-loss = %v, want shared 4951", i+1, req.StopLoss)
		}
		if req.Magic != 1001 || req.Deviation != 20 || req.Filling != domain.FillIOC {
			t.Errorf("leg %d defaults not applied: %+v", i+1, req)
		}
	}
	if sent[0].TakeProfit != 5063.5 || sent[1].TakeProfit != 5126 || sent[2].TakeProfit != 5201 {
		t.Error("legs must be submitted in ladder order")
	}
}

// failNthGateway drops the gateway result on the nth deal, which SubmitLeg
// classifies as fatal.
type failNthGateway struct {
	*execution.PaperGateway
	n     int
	calls int
}

func (f *failNthGateway) Send(ctx context.Context, req domain.TradeRequest) (domain.TradeResult, bool) {
	f.calls++
	if f.calls == f.n {
		return domain.TradeResult{}, false
	}
	return f.PaperGateway.Send(ctx, req)
}

func TestExecutePlan_FatalLegAbortsWithoutRollback(t *testing.T) {
	gw := &failNthGateway{PaperGateway: paperWithSymbol("XAUUSDm", 5000, 5001), n: 2}
	eng := New(gw, RetryPolicy{}, LegDefaults{Filling: domain.FillIOC}, nil)

	res, err := eng.ExecutePlan(context.Background(), triLegPlan())
	if err == nil {
		t.Fatal("want error from the failed leg")
	}
	if res.Completed {
		t.Error("plan must not be completed")
	}
	if len(res.Legs) != 2 {
		t.Fatalf("legs = %d, want 2 (filled first leg plus the failed one)", len(res.Legs))
	}
	if !res.Legs[0].Ok {
		t.Error("first leg should have filled")
	}
	if res.Legs[1].Ok {
		t.Error("second leg must be recorded as failed")
	}
	if f := gw.calls; f != 2 {
		t.Errorf("deal sends = %d, want 2 (third leg never attempted)", f)
	}

	// The filled leg stays open: no compensating close is issued.
	positions, err := gw.Positions(context.Background(), "XAUUSDm")
	if err != nil {
		t.Fatalf("positions: %v", err)
	}
	if len(positions) != 1 {
		t.Errorf("open positions = %d, want the filled first leg still open", len(positions))
	}
}
