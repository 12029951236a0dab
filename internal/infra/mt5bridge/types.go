package mt5bridge

import "encoding/json"

// Wire format of the bridge Expert Advisor: one JSON request per command,
// one JSON response correlated by id. The EA may interleave unsolicited
// frames (heartbeats); readers skip anything whose id does not match.

type request struct {
	ID     string `json:"id"`
	Cmd    string `json:"cmd"`
	Params any    `json:"params,omitempty"`
}

type response struct {
	ID    string          `json:"id"`
	OK    bool            `json:"ok"`
	Error string          `json:"error,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type initializeParams struct {
	Login    int64  `json:"login"`
	Password string `json:"password"`
	Server   string `json:"server"`
}

type symbolParams struct {
	Symbol string `json:"symbol"`
	Enable bool   `json:"enable,omitempty"`
}

type accountData struct {
	Login   int64   `json:"login"`
	Balance float64 `json:"balance"`
	Equity  float64 `json:"equity"`
}

type quoteData struct {
	Bid  float64 `json:"bid"`
	Ask  float64 `json:"ask"`
	Last float64 `json:"last"`
}

type symbolData struct {
	Name    string `json:"name"`
	Visible bool   `json:"visible"`
}

type orderParams struct {
	Action     string  `json:"action"`
	Symbol     string  `json:"symbol"`
	Type       string  `json:"type"`
	Volume     float64 `json:"volume"`
	Price      float64 `json:"price"`
	SL         float64 `json:"sl"`
	TP         float64 `json:"tp"`
	Deviation  int     `json:"deviation"`
	Magic      int64   `json:"magic"`
	Comment    string  `json:"comment"`
	Filling    string  `json:"type_filling"`
	Position   int64   `json:"position,omitempty"`
	TimePolicy string  `json:"type_time"`
}

type orderData struct {
	Retcode int     `json:"retcode"`
	Comment string  `json:"comment"`
	Order   int64   `json:"order"`
	Deal    int64   `json:"deal"`
	Price   float64 `json:"price"`
}

type positionData struct {
	Symbol    string  `json:"symbol"`
	Ticket    int64   `json:"ticket"`
	Type      string  `json:"type"` // BUY or SELL
	Volume    float64 `json:"volume"`
	PriceOpen float64 `json:"price_open"`
	SL        float64 `json:"sl"`
	TP        float64 `json:"tp"`
	Magic     int64   `json:"magic"`
}
