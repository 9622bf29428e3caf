package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/username/yuhfolio/src/database"
	"github.com/username/yuhfolio/src/logger"
	"github.com/username/yuhfolio/src/model"
	"github.com/username/yuhfolio/src/models"
	"github.com/username/yuhfolio/src/utils"
)

type WatchlistHandler struct{}

func NewWatchlistHandler() *WatchlistHandler {
	return &WatchlistHandler{}
}

func (h *WatchlistHandler) HandleGetWatchlist(w http.ResponseWriter, r *http.Request) {
	entries, err := model.GetWatchlist(database.DB)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to load watchlist", "error", err)
		utils.SendJSONError(w, "Error retrieving watchlist", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []models.WatchlistEntry{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

// HandleAddWatchlistEntry appends one entry. Name and ticker are the only
// required fields at this boundary; the store itself does no validation.
func (h *WatchlistHandler) HandleAddWatchlistEntry(w http.ResponseWriter, r *http.Request) {
	var entry models.WatchlistEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	entry.Name = strings.TrimSpace(entry.Name)
	entry.Ticker = strings.TrimSpace(entry.Ticker)
	if entry.Name == "" || entry.Ticker == "" {
		utils.SendJSONError(w, "name and ticker are required", http.StatusBadRequest)
		return
	}
	if entry.InstrumentType == "" {
		entry.InstrumentType = "Stock"
	}

	if err := model.InsertWatchlistEntry(database.DB, entry); err != nil {
		logger.FromContext(r.Context()).Error("Failed to add watchlist entry", "ticker", entry.Ticker, "error", err)
		utils.SendJSONError(w, "Error adding watchlist entry", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(entry)
}

// HandleRemoveWatchlistEntry deletes all entries matching the ticker exactly.
func (h *WatchlistHandler) HandleRemoveWatchlistEntry(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")
	if ticker == "" {
		utils.SendJSONError(w, "ticker is required", http.StatusBadRequest)
		return
	}

	removed, err := model.DeleteWatchlistEntries(database.DB, ticker)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to remove watchlist entries", "ticker", ticker, "error", err)
		utils.SendJSONError(w, "Error removing watchlist entry", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"removed": removed})
}
