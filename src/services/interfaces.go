package services

import (
	"errors"
	"io"

	"github.com/username/yuhfolio/src/models"
)

// Define common service errors
var (
	ErrParsingFailed    = errors.New("csv parsing failed")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// MarketDataService fetches current prices, fundamentals and FX rates.
// Implementations must degrade gracefully: an unreachable upstream yields an
// all-absent snapshot (or a zero FX rate), never a fault that aborts a render.
type MarketDataService interface {
	// GetQuote returns the latest snapshot for a ticker. Successive calls
	// within the cache window return the cached value without a new request.
	GetQuote(ticker string) models.MarketSnapshot
	// GetFxRate returns the current rate for a supported pair (USD/CHF, EUR/CHF).
	GetFxRate(pair string) (float64, error)
	// GetFxRateAt returns the rate for a pair as of a given day (YYYY-MM-DD),
	// used for backdated valuation.
	GetFxRateAt(pair string, date string) (float64, error)
	// GetHistory returns the close-price series for the chart selector.
	GetHistory(ticker, period, interval string) (*models.HistorySeries, error)
}

// ImportService ingests brokerage export files into the transaction store.
type ImportService interface {
	// ProcessImport parses the file, appends only rows not already stored
	// (full-row equality, surrogate id ignored), refreshes the position
	// snapshot, and returns exactly the newly appended rows.
	ProcessImport(fileReader io.Reader, source string) ([]models.Transaction, error)
}

// PortfolioService exposes the derived portfolio views.
type PortfolioService interface {
	GetTransactions() ([]models.Transaction, error)
	// GetPositions recomputes open positions from the full transaction log.
	GetPositions() ([]models.Position, error)
	// GetPortfolio returns positions valued in CHF with KPIs and the summary.
	GetPortfolio() (*models.PortfolioView, error)
	// InvalidateCache drops memoized portfolio views after a data change.
	InvalidateCache()
}
