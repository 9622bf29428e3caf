package services

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/yuhfolio/src/database"
	"github.com/username/yuhfolio/src/logger"
	"github.com/username/yuhfolio/src/model"
	"github.com/username/yuhfolio/src/models"
	"github.com/username/yuhfolio/src/processors"
)

const (
	ckPortfolioView        = "agg_portfolio_view"
	DefaultCacheExpiration = 5 * time.Minute
	CacheCleanupInterval   = 10 * time.Minute
)

type portfolioServiceImpl struct {
	marketDataService  MarketDataService
	positionProcessor  *processors.PositionProcessor
	valuationProcessor *processors.ValuationProcessor
	reportCache        *cache.Cache
	cashBalanceCHF     float64
	totalDepositCHF    float64
}

func NewPortfolioService(
	marketDataService MarketDataService,
	positionProcessor *processors.PositionProcessor,
	valuationProcessor *processors.ValuationProcessor,
	reportCache *cache.Cache,
	cashBalanceCHF float64,
	totalDepositCHF float64,
) PortfolioService {
	return &portfolioServiceImpl{
		marketDataService:  marketDataService,
		positionProcessor:  positionProcessor,
		valuationProcessor: valuationProcessor,
		reportCache:        reportCache,
		cashBalanceCHF:     cashBalanceCHF,
		totalDepositCHF:    totalDepositCHF,
	}
}

func (s *portfolioServiceImpl) GetTransactions() ([]models.Transaction, error) {
	txs, err := model.GetTransactions(database.DB)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return txs, nil
}

// GetPositions recomputes open positions from the full transaction log every
// time. The current_positions table is only a read-optimized snapshot; the
// log stays the single source of truth.
func (s *portfolioServiceImpl) GetPositions() ([]models.Position, error) {
	txs, err := model.GetTransactions(database.DB)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return s.positionProcessor.Process(txs), nil
}

// GetPortfolio assembles the dashboard view: positions valued in CHF,
// KPI-enriched from the market data gateway, plus the headline summary.
// Unreachable tickers and missing FX rates degrade to absent fields.
func (s *portfolioServiceImpl) GetPortfolio() (*models.PortfolioView, error) {
	if cached, found := s.reportCache.Get(ckPortfolioView); found {
		return cached.(*models.PortfolioView), nil
	}

	positions, err := s.GetPositions()
	if err != nil {
		return nil, err
	}

	// Only fetch the FX pairs actually present in the book.
	fxRates := make(map[string]float64)
	needed := make(map[string]string) // currency -> pair
	for _, p := range positions {
		switch p.Currency {
		case "USD":
			needed["USD"] = models.PairUSDCHF
		case "EUR":
			needed["EUR"] = models.PairEURCHF
		}
	}
	for _, pair := range needed {
		rate, err := s.marketDataService.GetFxRate(pair)
		if err != nil {
			logger.L.Warn("FX rate unavailable, affected positions valued at 0", "pair", pair, "error", err)
			continue
		}
		fxRates[pair] = rate
	}

	quotes := make(map[string]models.MarketSnapshot, len(positions))
	for _, p := range positions {
		quotes[p.Ticker] = s.marketDataService.GetQuote(p.Ticker)
	}

	valued := s.valuationProcessor.Process(positions, quotes, fxRates)
	view := &models.PortfolioView{
		Positions: valued,
		Summary:   s.valuationProcessor.Summarize(valued, s.cashBalanceCHF, s.totalDepositCHF),
	}

	s.reportCache.Set(ckPortfolioView, view, DefaultCacheExpiration)
	return view, nil
}

func (s *portfolioServiceImpl) InvalidateCache() {
	s.reportCache.Delete(ckPortfolioView)
}
