package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"sort"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/yuhfolio/src/logger"
	"github.com/username/yuhfolio/src/models"
	"golang.org/x/net/publicsuffix"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// Synthetic FX tickers for the supported pairs.
var fxTickers = map[string]string{
	models.PairUSDCHF: "USDCHF=X",
	models.PairEURCHF: "EURCHF=X",
}

// Chart selector enumerations.
var (
	validPeriods   = map[string]bool{"1mo": true, "3mo": true, "6mo": true, "1y": true, "5y": true, "max": true}
	validIntervals = map[string]bool{"1d": true, "1wk": true, "1mo": true}
)

// --- API Response Structs ---

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency           string  `json:"currency"`
				Symbol             string  `json:"symbol"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"chart"`
}

// yahooValue is the {raw, fmt} wrapper Yahoo puts around numeric fields.
type yahooValue struct {
	Raw *float64 `json:"raw"`
}

type yahooQuoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			DefaultKeyStatistics struct {
				TrailingEps yahooValue `json:"trailingEps"`
				PegRatio    yahooValue `json:"pegRatio"`
				Beta        yahooValue `json:"beta"`
			} `json:"defaultKeyStatistics"`
			SummaryDetail struct {
				TrailingPE yahooValue `json:"trailingPE"`
				MarketCap  yahooValue `json:"marketCap"`
			} `json:"summaryDetail"`
			FinancialData struct {
				FreeCashflow  yahooValue `json:"freeCashflow"`
				RevenueGrowth yahooValue `json:"revenueGrowth"`
			} `json:"financialData"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"quoteSummary"`
}

// --- Service Implementation ---

type marketDataServiceImpl struct {
	httpClient   http.Client
	baseURL      string
	quoteCache   *cache.Cache
	historyCache *cache.Cache
	quoteTTL     time.Duration
	historyTTL   time.Duration
}

// NewMarketDataService builds the market data gateway. The quote/FX cache is a
// pure cost control: within the TTL window repeated calls are served from
// memory, and expiry alone invalidates entries. Base URL and TTLs are
// parameters so the expiry behavior is testable.
func NewMarketDataService(baseURL string, quoteTTL, historyTTL, timeout time.Duration) MarketDataService {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		logger.L.Error("Failed to create cookie jar", "error", err)
	}

	return &marketDataServiceImpl{
		httpClient: http.Client{
			Jar:     jar,
			Timeout: timeout,
		},
		baseURL:      baseURL,
		quoteCache:   cache.New(quoteTTL, 2*quoteTTL),
		historyCache: cache.New(historyTTL, 2*historyTTL),
		quoteTTL:     quoteTTL,
		historyTTL:   historyTTL,
	}
}

func (s *marketDataServiceImpl) getJSON(url string, out interface{}) error {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("non-OK status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// GetQuote fetches price and fundamentals for one ticker. Any upstream
// failure collapses into an UNAVAILABLE snapshot with all fields absent; the
// aggregation path never sees a raw fault.
func (s *marketDataServiceImpl) GetQuote(ticker string) models.MarketSnapshot {
	cacheKey := fmt.Sprintf("quote-%s", ticker)
	if cached, found := s.quoteCache.Get(cacheKey); found {
		return cached.(models.MarketSnapshot)
	}

	snapshot := models.MarketSnapshot{Ticker: ticker, Status: models.SnapshotUnavailable}

	price, _, err := s.fetchPrice(ticker)
	if err != nil {
		logger.L.Warn("Could not get price for ticker", "ticker", ticker, "error", err)
		return snapshot
	}
	snapshot.Status = models.SnapshotOK
	snapshot.CurrentPrice = &price

	// Fundamentals are best-effort: a failed quoteSummary call still leaves a
	// usable price-only snapshot.
	if err := s.fetchFundamentals(ticker, &snapshot); err != nil {
		logger.L.Warn("Could not get fundamentals for ticker", "ticker", ticker, "error", err)
	}

	s.quoteCache.Set(cacheKey, snapshot, s.quoteTTL)
	return snapshot
}

func (s *marketDataServiceImpl) fetchPrice(ticker string) (float64, string, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s", s.baseURL, ticker)
	var chartData yahooChartResponse
	if err := s.getJSON(url, &chartData); err != nil {
		return 0, "", err
	}
	if chartData.Chart.Error != nil {
		return 0, "", fmt.Errorf("chart API returned an error: %v", chartData.Chart.Error)
	}
	if len(chartData.Chart.Result) == 0 || chartData.Chart.Result[0].Meta.RegularMarketPrice == 0 {
		return 0, "", fmt.Errorf("no price data found")
	}
	meta := chartData.Chart.Result[0].Meta
	return meta.RegularMarketPrice, meta.Currency, nil
}

func (s *marketDataServiceImpl) fetchFundamentals(ticker string, snapshot *models.MarketSnapshot) error {
	url := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=defaultKeyStatistics,summaryDetail,financialData", s.baseURL, ticker)
	var data yahooQuoteSummaryResponse
	if err := s.getJSON(url, &data); err != nil {
		return err
	}
	if len(data.QuoteSummary.Result) == 0 {
		return fmt.Errorf("no quoteSummary result")
	}
	res := data.QuoteSummary.Result[0]
	snapshot.EPS = res.DefaultKeyStatistics.TrailingEps.Raw
	snapshot.PEGRatio = res.DefaultKeyStatistics.PegRatio.Raw
	snapshot.Beta = res.DefaultKeyStatistics.Beta.Raw
	snapshot.PERatio = res.SummaryDetail.TrailingPE.Raw
	snapshot.MarketCap = res.SummaryDetail.MarketCap.Raw
	snapshot.FreeCashFlow = res.FinancialData.FreeCashflow.Raw
	if growth := res.FinancialData.RevenueGrowth.Raw; growth != nil {
		pct := *growth * 100
		snapshot.RevenueGrowthPct = &pct
	}
	return nil
}

// GetFxRate returns the current rate for a supported pair.
func (s *marketDataServiceImpl) GetFxRate(pair string) (float64, error) {
	fxTicker, ok := fxTickers[pair]
	if !ok {
		return 0, fmt.Errorf("unsupported FX pair: %s", pair)
	}

	cacheKey := fmt.Sprintf("fx-%s", pair)
	if cached, found := s.quoteCache.Get(cacheKey); found {
		return cached.(float64), nil
	}

	rate, _, err := s.fetchPrice(fxTicker)
	if err != nil {
		return 0, fmt.Errorf("fx rate for %s unavailable: %w", pair, err)
	}
	s.quoteCache.Set(cacheKey, rate, s.quoteTTL)
	return rate, nil
}

// GetFxRateAt returns the rate for a pair as of a given day. When the exact
// day has no close (weekend, holiday) the last close inside the preceding week
// is used, mirroring how backdated valuations are done by hand.
func (s *marketDataServiceImpl) GetFxRateAt(pair string, date string) (float64, error) {
	fxTicker, ok := fxTickers[pair]
	if !ok {
		return 0, fmt.Errorf("unsupported FX pair: %s", pair)
	}

	cacheKey := fmt.Sprintf("fx-%s-%s", pair, date)
	if cached, found := s.quoteCache.Get(cacheKey); found {
		return cached.(float64), nil
	}

	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: %w", date, err)
	}
	period1 := day.AddDate(0, 0, -7).Unix()
	period2 := day.AddDate(0, 0, 1).Unix()

	url := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d", s.baseURL, fxTicker, period1, period2)
	var chartData yahooChartResponse
	if err := s.getJSON(url, &chartData); err != nil {
		return 0, fmt.Errorf("historical fx rate for %s unavailable: %w", pair, err)
	}
	if len(chartData.Chart.Result) == 0 || len(chartData.Chart.Result[0].Indicators.Quote) == 0 {
		return 0, fmt.Errorf("no historical fx data for %s on %s", pair, date)
	}

	closes := chartData.Chart.Result[0].Indicators.Quote[0].Close
	rate := 0.0
	for _, c := range closes {
		if c > 0 {
			rate = c
		}
	}
	if rate == 0 {
		return 0, fmt.Errorf("no historical fx close for %s on or before %s", pair, date)
	}

	s.quoteCache.Set(cacheKey, rate, s.quoteTTL)
	return rate, nil
}

// GetHistory fetches the daily close series for the chart selector.
func (s *marketDataServiceImpl) GetHistory(ticker, period, interval string) (*models.HistorySeries, error) {
	if period == "" {
		period = "1y"
	}
	if interval == "" {
		interval = "1d"
	}
	if !validPeriods[period] {
		return nil, fmt.Errorf("invalid period %q", period)
	}
	if !validIntervals[interval] {
		return nil, fmt.Errorf("invalid interval %q", interval)
	}

	cacheKey := fmt.Sprintf("history-%s-%s-%s", ticker, period, interval)
	if cached, found := s.historyCache.Get(cacheKey); found {
		return cached.(*models.HistorySeries), nil
	}

	url := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=%s", s.baseURL, ticker, period, interval)
	var data yahooChartResponse
	if err := s.getJSON(url, &data); err != nil {
		return nil, fmt.Errorf("failed to fetch history: %w", err)
	}
	if len(data.Chart.Result) == 0 {
		return nil, fmt.Errorf("no history result found")
	}
	result := data.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no quote data found")
	}
	closes := result.Indicators.Quote[0].Close
	if len(result.Timestamp) != len(closes) {
		return nil, fmt.Errorf("data mismatch")
	}

	series := &models.HistorySeries{
		Ticker:   ticker,
		Currency: result.Meta.Currency,
		Period:   period,
		Interval: interval,
	}
	for i, ts := range result.Timestamp {
		if closes[i] == 0 {
			continue
		}
		series.Points = append(series.Points, models.HistoryPoint{
			Date:  time.Unix(ts, 0).UTC().Format("2006-01-02"),
			Close: closes[i],
		})
	}
	sort.Slice(series.Points, func(i, j int) bool {
		return series.Points[i].Date < series.Points[j].Date
	})

	s.historyCache.Set(cacheKey, series, s.historyTTL)
	return series, nil
}
