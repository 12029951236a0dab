package mt5bridge

import (
	"context"

	"github.com/thanhnguyen0311/mt5-trader/internal/domain"
)

// domain.Gateway implementation. Absence ("the terminal returned
// nothing") maps to ok=false with the diagnostic kept for LastError.

func (c *Client) Quote(ctx context.Context, symbol string) (domain.Quote, bool) {
	var q quoteData
	if err := c.call(ctx, "quote", symbolParams{Symbol: symbol}, &q); err != nil {
		return domain.Quote{}, false
	}
	return domain.Quote{Bid: q.Bid, Ask: q.Ask, Last: q.Last}, true
}

func (c *Client) SymbolInfo(ctx context.Context, symbol string) (domain.SymbolInfo, bool) {
	var s symbolData
	if err := c.call(ctx, "symbol_info", symbolParams{Symbol: symbol}, &s); err != nil {
		return domain.SymbolInfo{}, false
	}
	return domain.SymbolInfo{Name: s.Name, Visible: s.Visible}, true
}

func (c *Client) SelectSymbol(ctx context.Context, symbol string) bool {
	var dummy struct{}
	return c.call(ctx, "symbol_select", symbolParams{Symbol: symbol, Enable: true}, &dummy) == nil
}

func (c *Client) Send(ctx context.Context, req domain.TradeRequest) (domain.TradeResult, bool) {
	action := "TRADE_ACTION_DEAL"
	if req.Action == domain.ActionModifySLTP {
		action = "TRADE_ACTION_SLTP"
	}

	orderType := "ORDER_TYPE_BUY"
	if req.Side == domain.SideSell {
		orderType = "ORDER_TYPE_SELL"
	}

	var res orderData
	err := c.call(ctx, "order_send", orderParams{
		Action:     action,
		Symbol:     req.Symbol,
		Type:       orderType,
		Volume:     req.Volume,
		Price:      req.Price,
		SL:         req.StopLoss,
		TP:         req.TakeProfit,
		Deviation:  req.Deviation,
		Magic:      req.Magic,
		Comment:    req.Comment,
		Filling:    "ORDER_FILLING_" + string(req.Filling),
		Position:   req.Position,
		TimePolicy: "ORDER_TIME_GTC",
	}, &res)
	if err != nil {
		return domain.TradeResult{}, false
	}

	return domain.TradeResult{
		Retcode: res.Retcode,
		Comment: res.Comment,
		Order:   res.Order,
		Deal:    res.Deal,
		Price:   res.Price,
	}, true
}

func (c *Client) Positions(ctx context.Context, symbol string) ([]domain.Position, error) {
	var raw []positionData
	params := symbolParams{Symbol: symbol}
	if err := c.call(ctx, "positions", params, &raw); err != nil {
		return nil, err
	}

	out := make([]domain.Position, 0, len(raw))
	for _, p := range raw {
		side := domain.SideBuy
		if p.Type == "SELL" {
			side = domain.SideSell
		}
		out = append(out, domain.Position{
			Symbol:     p.Symbol,
			Ticket:     p.Ticket,
			Side:       side,
			Volume:     p.Volume,
			OpenPrice:  p.PriceOpen,
			StopLoss:   p.SL,
			TakeProfit: p.TP,
			Magic:      p.Magic,
		})
	}
	return out, nil
}

func (c *Client) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}
