package models

// Transaction is one normalized row of a brokerage export, as persisted in the
// transactions table. Rows are immutable once stored; the surrogate ID exists
// only for sqlite and is excluded from row equality.
type Transaction struct {
	ID              int64   `json:"id,omitempty"`
	Date            string  `json:"date"`             // As exported by the broker (ISO-like, sortable)
	TransactionType string  `json:"transaction_type"` // Broker activity type, e.g. "INVEST_ORDER_EXECUTED"
	TransactionInfo string  `json:"transaction_info"` // Activity name / product description
	DebitAmount     float64 `json:"debit_amount"`
	DebitCurrency   string  `json:"debit_currency"`
	CreditAmount    float64 `json:"credit_amount"`
	CreditCurrency  string  `json:"credit_currency"`
	Fees            float64 `json:"fees"`
	BuySell         string  `json:"buy_sell"` // "BUY", "SELL", or empty
	Quantity        float64 `json:"quantity"`
	Ticker          string  `json:"ticker"`
	PricePerUnit    float64 `json:"price_per_unit"`
	Platform        string  `json:"platform"`        // e.g. "Yuh"
	Currency        string  `json:"currency"`        // Effective currency: debit currency if present, else credit
	InstrumentType  string  `json:"instrument_type"` // "Stock", "ETF"; empty when the export carries none
}

// EqualsIgnoringID reports whether two rows match across all canonical columns.
// Used by the importer's full-row dedup join; the surrogate ID never participates.
func (t Transaction) EqualsIgnoringID(other Transaction) bool {
	t.ID = 0
	other.ID = 0
	return t == other
}
