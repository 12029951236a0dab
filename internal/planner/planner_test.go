package planner

import (
	"context"
	"errors"
	"testing"

	"github.com/thanhnguyen0311/mt5-trader/internal/domain"
	"github.com/thanhnguyen0311/mt5-trader/internal/execution"
	"github.com/thanhnguyen0311/mt5-trader/pkg/safe"
)

func gatewayWithQuote(symbol string, bid, ask, last float64) *execution.PaperGateway {
	gw := execution.NewPaperGateway()
	gw.AddSymbol(symbol, true, true)
	gw.SetQuote(symbol, bid, ask, last)
	return gw
}

func TestBuild_BuyLadder(t *testing.T) {
	// Metal instrument, stop below reference: BUY off the ask.
	gw := gatewayWithQuote("XAUUSDm", 5000, 5001, 5000.5)

	plan, err := Build(context.Background(), gw, "XAUUSDm", 4960, 0.01, nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if plan.Side != domain.SideBuy {
		t.Errorf("side = %s, want BUY", plan.Side)
	}
	if plan.Entry != 5001 {
		t.Errorf("entry = %v, want ask 5001", plan.Entry)
	}
	// Metal BUY buffer: raw 4960 - 3 = 4957. Distance 44, inside the 50 cap.
	if plan.StopLoss != 4957 {
		t.Errorf("stop-loss = %v, want 4957", plan.StopLoss)
	}

	// R = 44; ladder = entry + R * {1.25, 2.5, 4.0}
	want := []float64{5056, 5111, 5177}
	for i, tp := range plan.TakeProfits {
		if tp != want[i] {
			t.Errorf("tp[%d] = %v, want %v", i, tp, want[i])
		}
	}
	if !safe.StrictlyAscending(plan.TakeProfits) {
		t.Error("BUY ladder must be strictly increasing")
	}
}

func TestBuild_SellLadder(t *testing.T) {
	// Stop above reference: SELL off the bid.
	gw := gatewayWithQuote("XAUUSDm", 5000, 5001, 5000.5)

	plan, err := Build(context.Background(), gw, "XAUUSDm", 5040, 0.01, nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if plan.Side != domain.SideSell {
		t.Errorf("side = %s, want SELL", plan.Side)
	}
	if plan.Entry != 5000 {
		t.Errorf("entry = %v, want bid 5000", plan.Entry)
	}
	// Metal SELL buffer: raw 5040 + 3 = 5043.
	if plan.StopLoss != 5043 {
		t.Errorf("stop-loss = %v, want 5043", plan.StopLoss)
	}

	// R = 43; ladder = entry - R * {1.25, 2.5, 4.0}
	want := []float64{4946.25, 4892.5, 4828}
	for i, tp := range plan.TakeProfits {
		if tp != want[i] {
			t.Errorf("tp[%d] = %v, want %v", i, tp, want[i])
		}
	}
	if !safe.StrictlyDescending(plan.TakeProfits) {
		t.Error("SELL ladder must be strictly decreasing")
	}
}

func TestBuild_MetalClampsFarStop(t *testing.T) {
	// Raw stop far below reference: buffered stop exceeds the 50-point
	// cap and is clamped to exactly 50 below the entry, side stays BUY.
	gw := gatewayWithQuote("XAUUSDm", 5000, 5001, 5000.5)

	plan, err := Build(context.Background(), gw, "XAUUSDm", 4000, 0.01, nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if plan.Side != domain.SideBuy {
		t.Errorf("side = %s, want BUY", plan.Side)
	}
	if plan.StopLoss != 4951 {
		t.Errorf("stop-loss = %v, want 4951 (entry 5001 - 50)", plan.StopLoss)
	}

	// R = 50 exactly after the clamp.
	want := []float64{5063.5, 5126, 5201}
	for i, tp := range plan.TakeProfits {
		if tp != want[i] {
			t.Errorf("tp[%d] = %v, want %v", i, tp, want[i])
		}
	}
}

func TestBuild_HighPriceClampsFarStop(t *testing.T) {
	gw := gatewayWithQuote("BTCUSD", 59990, 60010, 60000)

	plan, err := Build(context.Background(), gw, "BTCUSD", 59000, 0.01, nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if plan.Side != domain.SideBuy {
		t.Errorf("side = %s, want BUY", plan.Side)
	}
	// Buffer: 59000 - 30 = 58970; distance 1040 exceeds the 500 cap.
	if plan.StopLoss != 59510 {
		t.Errorf("stop-loss = %v, want 59510 (entry 60010 - 500)", plan.StopLoss)
	}
}

func TestBuild_UnclassifiedSymbolNoBufferNoClamp(t *testing.T) {
	gw := gatewayWithQuote("NAS100", 15099, 15101, 0) // no last: midpoint reference

	plan, err := Build(context.Background(), gw, "NAS100", 14000, 0.1, nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// No buffer, no clamp: the raw stop survives untouched.
	if plan.StopLoss != 14000 {
		t.Errorf("stop-loss = %v, want raw 14000", plan.StopLoss)
	}
	if plan.Side != domain.SideBuy {
		t.Errorf("side = %s, want BUY", plan.Side)
	}
	if plan.Entry != 15101 {
		t.Errorf("entry = %v, want ask 15101", plan.Entry)
	}
}

func TestBuild_SideFlipsAtBufferBoundary(t *testing.T) {
	// Last trade prints well above the book. The raw stop sits below the
	// reference (provisional BUY, so entry = ask and the BUY buffer sign
	// applies) but the buffered stop lands above the entry, so the side
	// actually traded is SELL. Pins the two-step derivation order.
	gw := gatewayWithQuote("XAUUSDm", 5000, 5001, 5010)

	plan, err := Build(context.Background(), gw, "XAUUSDm", 5005, 0.01, nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if plan.Entry != 5001 {
		t.Errorf("entry = %v, want ask 5001 (provisional BUY)", plan.Entry)
	}
	if plan.StopLoss != 5002 {
		t.Errorf("stop-loss = %v, want 5002 (raw 5005 with BUY buffer -3)", plan.StopLoss)
	}
	if plan.Side != domain.SideSell {
		t.Errorf("side = %s, want SELL (final derivation)", plan.Side)
	}
	if !safe.StrictlyDescending(plan.TakeProfits) {
		t.Error("final SELL side must drive a descending ladder")
	}
}

func TestBuild_Errors(t *testing.T) {
	t.Run("quote unavailable", func(t *testing.T) {
		gw := execution.NewPaperGateway()
		_, err := Build(context.Background(), gw, "XAUUSDm", 4950, 0.01, nil)
		if !errors.Is(err, ErrQuoteUnavailable) {
			t.Errorf("err = %v, want ErrQuoteUnavailable", err)
		}
	})

	t.Run("invalid quote", func(t *testing.T) {
		gw := gatewayWithQuote("XAUUSDm", 0, 5001, 5000)
		_, err := Build(context.Background(), gw, "XAUUSDm", 4950, 0.01, nil)
		if !errors.Is(err, ErrInvalidQuote) {
			t.Errorf("err = %v, want ErrInvalidQuote", err)
		}
	})

	t.Run("zero risk", func(t *testing.T) {
		gw := gatewayWithQuote("NAS100", 15000, 15000, 15000)
		_, err := Build(context.Background(), gw, "NAS100", 15000, 0.01, nil)
		if !errors.Is(err, ErrZeroRisk) {
			t.Errorf("err = %v, want ErrZeroRisk", err)
		}
	})
}
