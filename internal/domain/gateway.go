package domain

import "context"

// Quote is a fresh bid/ask/last snapshot for one symbol.
type Quote struct {
	Bid  float64
	Ask  float64
	Last float64
}

// SymbolInfo is the terminal's view of an instrument.
type SymbolInfo struct {
	Name    string
	Visible bool // tradable from this terminal session
}

// Gateway abstracts the broker terminal connection. It is process-wide
// singleton state with an explicit connect/disconnect lifecycle; every
// method blocks until the terminal responds. Absence of a value (no such
// symbol, no quote, no result) is conveyed by the boolean, matching the
// terminal's own "returns nothing" failure mode; LastError carries the
// diagnostic for it.
type Gateway interface {
	// Quote returns the current tick for symbol.
	Quote(ctx context.Context, symbol string) (Quote, bool)

	// SymbolInfo resolves an instrument.
	SymbolInfo(ctx context.Context, symbol string) (SymbolInfo, bool)

	// SelectSymbol makes a hidden instrument tradable.
	SelectSymbol(ctx context.Context, symbol string) bool

	// Send submits one trade request (deal or SL/TP modification).
	Send(ctx context.Context, req TradeRequest) (TradeResult, bool)

	// Positions lists open positions, optionally filtered to one symbol
	// (empty string = all).
	Positions(ctx context.Context, symbol string) ([]Position, error)

	// LastError returns the terminal's diagnostic for the most recent
	// failed call.
	LastError() string
}
