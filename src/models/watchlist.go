package models

// WatchlistEntry is an instrument tracked but not necessarily held. Watchlist
// rows are independent of transactions and positions; no relationship is
// enforced between them.
type WatchlistEntry struct {
	ID             int64  `json:"id,omitempty"`
	Name           string `json:"name"`
	Ticker         string `json:"ticker"`
	Currency       string `json:"currency"`
	Comment        string `json:"comment"`
	InstrumentType string `json:"instrument_type"` // "Stock" or "ETF"
}
