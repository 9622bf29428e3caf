package models

// Position is one open holding derived from the transaction log. It is never
// stored as a source of truth; the current_positions table only keeps a
// denormalized snapshot for fast reads.
type Position struct {
	Ticker          string   `json:"ticker"`
	Name            string   `json:"name"`
	Currency        string   `json:"currency"`
	InstrumentType  string   `json:"instrument_type"`
	Units           float64  `json:"units"`
	AverageBuyPrice *float64 `json:"average_buy_price"` // nil when the ticker has no BUY rows
}

// ValuedPosition is a Position enriched with the latest market snapshot,
// converted into the reporting currency. Pointer fields stay nil when the
// upstream data is unavailable; everything is rounded to 3 decimals for display.
type ValuedPosition struct {
	Position
	CurrentPrice  *float64 `json:"current_price"`
	ValueCHF      *float64 `json:"value_chf"`
	ProfitLoss    *float64 `json:"profit_loss"`
	ProfitLossPct *float64 `json:"profit_loss_pct"`

	// Fundamentals carried over from the market snapshot
	EPS              *float64 `json:"eps"`
	PERatio          *float64 `json:"pe_ratio"`
	MarketCap        *float64 `json:"market_cap"`
	PEGRatio         *float64 `json:"peg_ratio"`
	Beta             *float64 `json:"beta"`
	FreeCashFlow     *float64 `json:"free_cash_flow"`
	RevenueGrowthPct *float64 `json:"revenue_growth_pct"`
}

// PortfolioSummary aggregates the valued positions with the cash ledger.
type PortfolioSummary struct {
	TotalValueCHF   float64 `json:"total_value_chf"` // Sum of position values plus cash
	CashCHF         float64 `json:"cash_chf"`
	TotalDepositCHF float64 `json:"total_deposit_chf"`
	InvestedCHF     float64 `json:"invested_chf"`
	GrowthPct       float64 `json:"growth_pct"` // Value development vs total deposit
}

// PortfolioView is the payload of the main dashboard endpoint.
type PortfolioView struct {
	Positions []ValuedPosition `json:"positions"`
	Summary   PortfolioSummary `json:"summary"`
}
