package execution

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/thanhnguyen0311/mt5-trader/internal/domain"
	"github.com/thanhnguyen0311/mt5-trader/internal/infra"
	"github.com/thanhnguyen0311/mt5-trader/internal/infra/mt5bridge"
)

// Mode represents the trading execution mode.
type Mode string

const (
	ModeMock  Mode = "MOCK"
	ModePaper Mode = "PAPER"
	ModeDemo  Mode = "DEMO"
	ModeReal  Mode = "REAL"
)

// Factory creates the gateway matching the configured mode.
type Factory struct {
	config *infra.Config
}

// NewFactory creates a new factory.
func NewFactory(cfg *infra.Config) *Factory {
	return &Factory{config: cfg}
}

// CreateGateway returns a connected gateway for the configured mode,
// plus a shutdown function bracketing the terminal session.
func (f *Factory) CreateGateway(ctx context.Context) (domain.Gateway, func(), error) {
	mode := Mode(f.config.Trading.Mode)

	slog.Info("Initializing broker gateway", "mode", mode)

	switch mode {
	case ModeMock:
		return NewMockGateway(), func() {}, nil

	case ModePaper:
		gw := NewPaperGateway()
		gw.AddSymbol(f.config.Trading.Symbol, true, true)
		return gw, func() {}, nil

	case ModeDemo:
		slog.Info("🔒 Connecting to terminal bridge (DEMO account)")
		return f.connectBridge(ctx)

	case ModeReal:
		// Safety latch: silent real-money startup is never acceptable.
		if os.Getenv("CONFIRM_REAL_MONEY") != "true" {
			err := fmt.Errorf("SAFETY_GUARD: real trading requires 'CONFIRM_REAL_MONEY=true' environment variable")
			slog.Error(err.Error())
			return nil, nil, err
		}
		slog.Info("🚨🚨🚨 Connecting to terminal bridge (REAL account) 🚨🚨🚨")
		return f.connectBridge(ctx)

	default:
		return nil, nil, fmt.Errorf("unknown execution mode: %s", mode)
	}
}

func (f *Factory) connectBridge(ctx context.Context) (domain.Gateway, func(), error) {
	client := mt5bridge.NewClient(f.config)
	if err := client.Connect(ctx); err != nil {
		return nil, nil, fmt.Errorf("bridge connect: %w", err)
	}
	return client, func() { client.Close() }, nil
}
