package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/yuhfolio/src/database"
	"github.com/username/yuhfolio/src/models"
	_ "modernc.org/sqlite"
)

func setupWatchlistDB(t *testing.T) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	_, err = db.Exec(`CREATE TABLE watchlist (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		ticker TEXT NOT NULL,
		currency TEXT NOT NULL DEFAULT '',
		comment TEXT NOT NULL DEFAULT '',
		instrument_type TEXT NOT NULL DEFAULT 'Stock'
	)`)
	require.NoError(t, err)

	previous := database.DB
	database.DB = db
	t.Cleanup(func() {
		database.DB = previous
		db.Close()
	})
}

func watchlistRouter() *chi.Mux {
	h := NewWatchlistHandler()
	r := chi.NewRouter()
	r.Get("/api/watchlist", h.HandleGetWatchlist)
	r.Post("/api/watchlist", h.HandleAddWatchlistEntry)
	r.Delete("/api/watchlist/{ticker}", h.HandleRemoveWatchlistEntry)
	return r
}

func TestWatchlistEndpoints(t *testing.T) {
	setupWatchlistDB(t)
	router := watchlistRouter()

	// Empty list renders as [], not null.
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/watchlist", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))

	// Add an entry; instrument type defaults to Stock.
	body := `{"name":"ASML Holding","ticker":"ASML","currency":"EUR","comment":"fab monopoly"}`
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/watchlist", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.WatchlistEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Stock", created.InstrumentType)

	// The entry is listed.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/watchlist", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []models.WatchlistEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "ASML", listed[0].Ticker)

	// Remove by ticker.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/watchlist/ASML", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var removal map[string]int64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &removal))
	assert.Equal(t, int64(1), removal["removed"])
}

func TestAddWatchlistEntry_Validation(t *testing.T) {
	setupWatchlistDB(t)
	router := watchlistRouter()

	tests := []struct {
		name string
		body string
	}{
		{"missing ticker", `{"name":"ASML Holding"}`},
		{"missing name", `{"ticker":"ASML"}`},
		{"whitespace only", `{"name":"  ","ticker":"  "}`},
		{"invalid json", `{name:`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/watchlist", strings.NewReader(tc.body)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestRemoveWatchlistEntry_UnknownTicker(t *testing.T) {
	setupWatchlistDB(t)
	router := watchlistRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/watchlist/NVDA", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var removal map[string]int64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &removal))
	assert.Zero(t, removal["removed"])
}
