package execution

import (
	"context"
	"log/slog"

	"github.com/thanhnguyen0311/mt5-trader/internal/domain"
)

// MockGateway is a safe implementation that only logs traffic. Every
// request succeeds without touching anything.
type MockGateway struct{}

func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

func (m *MockGateway) Quote(ctx context.Context, symbol string) (domain.Quote, bool) {
	slog.Info("MOCK GATEWAY: Quote", slog.String("symbol", symbol))
	return domain.Quote{Bid: 1, Ask: 1, Last: 1}, true
}

func (m *MockGateway) SymbolInfo(ctx context.Context, symbol string) (domain.SymbolInfo, bool) {
	slog.Info("MOCK GATEWAY: SymbolInfo", slog.String("symbol", symbol))
	return domain.SymbolInfo{Name: symbol, Visible: true}, true
}

func (m *MockGateway) SelectSymbol(ctx context.Context, symbol string) bool {
	slog.Info("MOCK GATEWAY: SelectSymbol", slog.String("symbol", symbol))
	return true
}

func (m *MockGateway) Send(ctx context.Context, req domain.TradeRequest) (domain.TradeResult, bool) {
	slog.Info("MOCK GATEWAY: Send",
		slog.String("action", string(req.Action)),
		slog.String("symbol", req.Symbol),
		slog.String("side", string(req.Side)),
		slog.Float64("volume", req.Volume),
		slog.Float64("price", req.Price),
	)
	return domain.TradeResult{Retcode: domain.RetcodeDone, Comment: "mock"}, true
}

func (m *MockGateway) Positions(ctx context.Context, symbol string) ([]domain.Position, error) {
	return nil, nil
}

func (m *MockGateway) LastError() string { return "" }
