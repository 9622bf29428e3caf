package models

// Snapshot status values, mirroring the price fetch contract: upstream
// failures degrade to an all-absent snapshot, never to an error.
const (
	SnapshotOK          = "OK"
	SnapshotUnavailable = "UNAVAILABLE"
)

// MarketSnapshot holds the current price and fundamentals for one ticker.
// Ephemeral: fetched per ticker and held only in the quote cache.
type MarketSnapshot struct {
	Ticker           string   `json:"ticker"`
	Status           string   `json:"status"`
	CurrentPrice     *float64 `json:"current_price"`
	EPS              *float64 `json:"eps"`
	PERatio          *float64 `json:"pe_ratio"`
	MarketCap        *float64 `json:"market_cap"`
	PEGRatio         *float64 `json:"peg_ratio"`
	Beta             *float64 `json:"beta"`
	FreeCashFlow     *float64 `json:"free_cash_flow"`
	RevenueGrowthPct *float64 `json:"revenue_growth_pct"`
}

// FX pairs supported by the flat three-currency conversion.
const (
	PairUSDCHF = "USD/CHF"
	PairEURCHF = "EUR/CHF"
)

// FxRate is a cached conversion rate for one pair on one day.
type FxRate struct {
	Pair string  `json:"pair"`
	Rate float64 `json:"rate"`
	Date string  `json:"date"` // YYYY-MM-DD
}

// HistoryPoint is one close price in a ticker's chart series.
type HistoryPoint struct {
	Date  string  `json:"date"` // YYYY-MM-DD
	Close float64 `json:"close"`
}

// HistorySeries is the payload of the chart selector endpoint.
type HistorySeries struct {
	Ticker   string         `json:"ticker"`
	Currency string         `json:"currency"`
	Period   string         `json:"period"`
	Interval string         `json:"interval"`
	Points   []HistoryPoint `json:"points"`
}
