package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot is a point-in-time market view for one symbol. Nil pointers mean
// the provider did not return that field; renderers show "N/A".
type Snapshot struct {
	Symbol        string   `json:"symbol"`
	CurrentPrice  *float64 `json:"current_price"`
	Open          *float64 `json:"open"`
	High          *float64 `json:"high"`
	Low           *float64 `json:"low"`
	PreviousClose *float64 `json:"previous_close"`
	Volume        *int64   `json:"volume"`
	ChangePct     *float64 `json:"change_pct"`
	Bid           *float64 `json:"bid"`
	Ask           *float64 `json:"ask"`
	Exchange      string   `json:"exchange,omitempty"`
}

// Bar is a single daily OHLCV bar.
type Bar struct {
	Date   time.Time       `json:"date"`
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Volume int64           `json:"volume"`
}
