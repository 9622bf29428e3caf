package services

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/yuhfolio/src/logger"
	"github.com/username/yuhfolio/src/models"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

const chartBody = `{"chart":{"result":[{"meta":{"currency":"USD","symbol":"PLTR","regularMarketPrice":65.0},
	"timestamp":[1704153600,1704240000,1704326400],
	"indicators":{"quote":[{"close":[63.5,0,65.0]}]}}],"error":null}}`

const quoteSummaryBody = `{"quoteSummary":{"result":[{
	"defaultKeyStatistics":{"trailingEps":{"raw":2.1},"pegRatio":{"raw":1.8},"beta":{"raw":2.7}},
	"summaryDetail":{"trailingPE":{"raw":30.95},"marketCap":{"raw":145000000000}},
	"financialData":{"freeCashflow":{"raw":800000000},"revenueGrowth":{"raw":0.27}}}],"error":null}}`

func newMarketServer(t *testing.T, hits *int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(hits, 1)
		switch {
		case strings.HasPrefix(r.URL.Path, "/v8/finance/chart/"):
			fmt.Fprint(w, chartBody)
		case strings.HasPrefix(r.URL.Path, "/v10/finance/quoteSummary/"):
			fmt.Fprint(w, quoteSummaryBody)
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestGetQuote_ParsesPriceAndFundamentals(t *testing.T) {
	var hits int64
	server := newMarketServer(t, &hits)
	defer server.Close()

	svc := NewMarketDataService(server.URL, time.Minute, time.Minute, 5*time.Second)
	snapshot := svc.GetQuote("PLTR")

	assert.Equal(t, models.SnapshotOK, snapshot.Status)
	require.NotNil(t, snapshot.CurrentPrice)
	assert.Equal(t, 65.0, *snapshot.CurrentPrice)
	require.NotNil(t, snapshot.EPS)
	assert.Equal(t, 2.1, *snapshot.EPS)
	require.NotNil(t, snapshot.PERatio)
	assert.Equal(t, 30.95, *snapshot.PERatio)
	require.NotNil(t, snapshot.RevenueGrowthPct)
	assert.InDelta(t, 27.0, *snapshot.RevenueGrowthPct, 0.0001, "revenue growth is reported as a percentage")
	require.NotNil(t, snapshot.MarketCap)
	assert.Equal(t, 145000000000.0, *snapshot.MarketCap)
}

func TestGetQuote_CacheServesSecondCall(t *testing.T) {
	var hits int64
	server := newMarketServer(t, &hits)
	defer server.Close()

	svc := NewMarketDataService(server.URL, time.Minute, time.Minute, 5*time.Second)
	first := svc.GetQuote("PLTR")
	after := atomic.LoadInt64(&hits)
	second := svc.GetQuote("PLTR")

	assert.Equal(t, first, second)
	assert.Equal(t, after, atomic.LoadInt64(&hits), "second call inside the TTL must not reach the server")
}

func TestGetQuote_TTLExpiryRefetches(t *testing.T) {
	var hits int64
	server := newMarketServer(t, &hits)
	defer server.Close()

	svc := NewMarketDataService(server.URL, 30*time.Millisecond, time.Minute, 5*time.Second)
	svc.GetQuote("PLTR")
	after := atomic.LoadInt64(&hits)

	time.Sleep(60 * time.Millisecond)
	svc.GetQuote("PLTR")
	assert.Greater(t, atomic.LoadInt64(&hits), after, "expired entry must be refetched")
}

func TestGetQuote_UpstreamFailureYieldsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := NewMarketDataService(server.URL, time.Minute, time.Minute, 5*time.Second)
	snapshot := svc.GetQuote("PLTR")

	assert.Equal(t, models.SnapshotUnavailable, snapshot.Status)
	assert.Nil(t, snapshot.CurrentPrice)
	assert.Nil(t, snapshot.EPS)
}

func TestGetQuote_UnavailableSnapshotIsNotCached(t *testing.T) {
	var failing int32 = 1
	var hits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		if atomic.LoadInt32(&failing) == 1 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		if strings.HasPrefix(r.URL.Path, "/v8/finance/chart/") {
			fmt.Fprint(w, chartBody)
		} else {
			fmt.Fprint(w, quoteSummaryBody)
		}
	}))
	defer server.Close()

	svc := NewMarketDataService(server.URL, time.Minute, time.Minute, 5*time.Second)
	assert.Equal(t, models.SnapshotUnavailable, svc.GetQuote("PLTR").Status)

	atomic.StoreInt32(&failing, 0)
	assert.Equal(t, models.SnapshotOK, svc.GetQuote("PLTR").Status, "recovery must not be masked by a cached failure")
}

func TestGetFxRate(t *testing.T) {
	var hits int64
	server := newMarketServer(t, &hits)
	defer server.Close()

	svc := NewMarketDataService(server.URL, time.Minute, time.Minute, 5*time.Second)

	rate, err := svc.GetFxRate(models.PairUSDCHF)
	require.NoError(t, err)
	assert.Equal(t, 65.0, rate)

	_, err = svc.GetFxRate("GBP/CHF")
	assert.Error(t, err, "only the shipped pairs are supported")
}

func TestGetFxRateAt_UsesLastNonzeroClose(t *testing.T) {
	var hits int64
	server := newMarketServer(t, &hits)
	defer server.Close()

	svc := NewMarketDataService(server.URL, time.Minute, time.Minute, 5*time.Second)

	rate, err := svc.GetFxRateAt(models.PairUSDCHF, "2024-01-06")
	require.NoError(t, err)
	assert.Equal(t, 65.0, rate, "zero closes are skipped, the last real close wins")

	_, err = svc.GetFxRateAt(models.PairUSDCHF, "06.01.2024")
	assert.Error(t, err)
}

func TestGetHistory(t *testing.T) {
	var hits int64
	server := newMarketServer(t, &hits)
	defer server.Close()

	svc := NewMarketDataService(server.URL, time.Minute, time.Minute, 5*time.Second)

	series, err := svc.GetHistory("PLTR", "5y", "1d")
	require.NoError(t, err)
	assert.Equal(t, "PLTR", series.Ticker)
	assert.Equal(t, "USD", series.Currency)
	require.Len(t, series.Points, 2, "zero closes are dropped from the series")
	assert.Equal(t, "2024-01-02", series.Points[0].Date)
	assert.Equal(t, 63.5, series.Points[0].Close)
	assert.Equal(t, 65.0, series.Points[1].Close)
}

func TestGetHistory_Validation(t *testing.T) {
	var hits int64
	server := newMarketServer(t, &hits)
	defer server.Close()

	svc := NewMarketDataService(server.URL, time.Minute, time.Minute, 5*time.Second)

	_, err := svc.GetHistory("PLTR", "2y", "1d")
	assert.Error(t, err)
	_, err = svc.GetHistory("PLTR", "1y", "15m")
	assert.Error(t, err)

	series, err := svc.GetHistory("PLTR", "", "")
	require.NoError(t, err)
	assert.Equal(t, "1y", series.Period, "empty selectors fall back to defaults")
	assert.Equal(t, "1d", series.Interval)
}
