package models

// Account is a brokerage account as returned by the broker API.
type Account struct {
	ID            string `json:"id"`
	AccountNumber string `json:"account_number"`
	Status        string `json:"status"`
	Currency      string `json:"currency"`
	Cash          string `json:"cash"`
	Equity        string `json:"equity"`
}

// Order mirrors the broker's order payload. Numeric fields arrive as
// strings on the wire; callers parse them as needed.
type Order struct {
	ID          string `json:"id"`
	Symbol      string `json:"symbol"`
	Side        string `json:"side"`
	Qty         string `json:"qty"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	LimitPrice  string `json:"limit_price,omitempty"`
	SubmittedAt string `json:"submitted_at,omitempty"`
	FilledQty   string `json:"filled_qty,omitempty"`
}

// Position is a single holding in an account.
type Position struct {
	Symbol         string `json:"symbol"`
	Qty            string `json:"qty"`
	MarketValue    string `json:"market_value"`
	AvgEntryPrice  string `json:"avg_entry_price"`
	UnrealizedPL   string `json:"unrealized_pl"`
	UnrealizedPLPC string `json:"unrealized_plpc"`
}
