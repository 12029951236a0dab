package execution

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/thanhnguyen0311/mt5-trader/internal/domain"
)

// PaperGateway simulates the broker terminal in memory. Used for PAPER
// mode and for pre-production validation of the whole pipeline; every
// input (quotes, symbol visibility, retcodes, dropped results) can be
// scripted, so it doubles as the deterministic gateway for tests.
type PaperGateway struct {
	mu sync.Mutex

	quotes  map[string]domain.Quote
	symbols map[string]*paperSymbol

	positions  []domain.Position
	nextTicket int64

	// scripted failure modes
	retcodes   []int // consumed per Send; empty means done
	dropResult bool  // Send answers with nothing
	zeroFill   bool  // done deals report no fill price

	sent    []domain.TradeRequest
	lastErr string
}

type paperSymbol struct {
	visible    bool
	selectable bool
}

// NewPaperGateway creates an empty simulated terminal.
func NewPaperGateway() *PaperGateway {
	return &PaperGateway{
		quotes:     make(map[string]domain.Quote),
		symbols:    make(map[string]*paperSymbol),
		nextTicket: 1,
	}
}

// AddSymbol registers an instrument.
func (p *PaperGateway) AddSymbol(name string, visible, selectable bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.symbols[name] = &paperSymbol{visible: visible, selectable: selectable}
}

// SetQuote installs the current tick for a symbol.
func (p *PaperGateway) SetQuote(symbol string, bid, ask, last float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.quotes[symbol] = domain.Quote{Bid: bid, Ask: ask, Last: last}
}

// ClearQuote removes the tick for a symbol.
func (p *PaperGateway) ClearQuote(symbol string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.quotes, symbol)
}

// ScriptRetcodes queues retcodes consumed by subsequent Send calls; when
// the queue is empty Send answers done.
func (p *PaperGateway) ScriptRetcodes(codes ...int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.retcodes = append(p.retcodes, codes...)
}

// DropResults makes Send answer with nothing when on is true.
func (p *PaperGateway) DropResults(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dropResult = on
}

// ZeroFill makes done deals omit their fill price when on is true.
func (p *PaperGateway) ZeroFill(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.zeroFill = on
}

// SeedPosition installs an open position directly, as if it pre-existed.
func (p *PaperGateway) SeedPosition(pos domain.Position) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if pos.Ticket == 0 {
		pos.Ticket = p.nextTicket
		p.nextTicket++
	} else if pos.Ticket >= p.nextTicket {
		p.nextTicket = pos.Ticket + 1
	}
	p.positions = append(p.positions, pos)
}

// Sent returns a copy of every trade request received so far.
func (p *PaperGateway) Sent() []domain.TradeRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.TradeRequest, len(p.sent))
	copy(out, p.sent)
	return out
}

// Quote implements domain.Gateway.
func (p *PaperGateway) Quote(ctx context.Context, symbol string) (domain.Quote, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	q, ok := p.quotes[symbol]
	if !ok {
		p.lastErr = "paper: no tick for " + symbol
	}
	return q, ok
}

// SymbolInfo implements domain.Gateway.
func (p *PaperGateway) SymbolInfo(ctx context.Context, symbol string) (domain.SymbolInfo, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.symbols[symbol]
	if !ok {
		p.lastErr = "paper: unknown symbol " + symbol
		return domain.SymbolInfo{}, false
	}
	return domain.SymbolInfo{Name: symbol, Visible: s.visible}, true
}

// SelectSymbol implements domain.Gateway.
func (p *PaperGateway) SelectSymbol(ctx context.Context, symbol string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.symbols[symbol]
	if !ok || !s.selectable {
		p.lastErr = "paper: symbol_select failed for " + symbol
		return false
	}
	s.visible = true
	return true
}

// Send implements domain.Gateway. Done deals mutate the simulated
// position book: a plain deal opens a position, a deal against a ticket
// closes it, an SLTP action rewrites stops.
func (p *PaperGateway) Send(ctx context.Context, req domain.TradeRequest) (domain.TradeResult, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.sent = append(p.sent, req)

	if p.dropResult {
		p.lastErr = "paper: order_send returned nothing"
		return domain.TradeResult{}, false
	}

	retcode := domain.RetcodeDone
	if len(p.retcodes) > 0 {
		retcode = p.retcodes[0]
		p.retcodes = p.retcodes[1:]
	}
	if retcode != domain.RetcodeDone {
		return domain.TradeResult{Retcode: retcode, Comment: fmt.Sprintf("paper reject %d", retcode)}, true
	}

	switch req.Action {
	case domain.ActionModifySLTP:
		for i := range p.positions {
			if p.positions[i].Ticket == req.Position {
				p.positions[i].StopLoss = req.StopLoss
				p.positions[i].TakeProfit = req.TakeProfit
			}
		}
		return domain.TradeResult{Retcode: domain.RetcodeDone, Comment: "paper sltp"}, true

	default: // deal
		fill := req.Price
		if p.zeroFill {
			fill = 0
		}

		if req.Position != 0 {
			// closing deal
			kept := p.positions[:0]
			for _, pos := range p.positions {
				if pos.Ticket != req.Position {
					kept = append(kept, pos)
				}
			}
			p.positions = kept
			return domain.TradeResult{
				Retcode: domain.RetcodeDone,
				Comment: "paper close",
				Deal:    p.nextTicket,
				Price:   fill,
			}, true
		}

		ticket := p.nextTicket
		p.nextTicket++
		p.positions = append(p.positions, domain.Position{
			Symbol:     req.Symbol,
			Ticket:     ticket,
			Side:       req.Side,
			Volume:     req.Volume,
			OpenPrice:  req.Price,
			StopLoss:   req.StopLoss,
			TakeProfit: req.TakeProfit,
			Magic:      req.Magic,
		})

		slog.Debug("PAPER: deal filled",
			slog.String("symbol", req.Symbol),
			slog.String("side", string(req.Side)),
			slog.Float64("price", req.Price),
			slog.Float64("volume", req.Volume))

		return domain.TradeResult{
			Retcode: domain.RetcodeDone,
			Comment: "paper deal",
			Order:   ticket,
			Deal:    ticket,
			Price:   fill,
		}, true
	}
}

// Positions implements domain.Gateway.
func (p *PaperGateway) Positions(ctx context.Context, symbol string) ([]domain.Position, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]domain.Position, 0, len(p.positions))
	for _, pos := range p.positions {
		if symbol == "" || pos.Symbol == symbol {
			out = append(out, pos)
		}
	}
	return out, nil
}

// LastError implements domain.Gateway.
func (p *PaperGateway) LastError() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}
