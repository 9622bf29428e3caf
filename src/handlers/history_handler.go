package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/username/yuhfolio/src/logger"
	"github.com/username/yuhfolio/src/services"
	"github.com/username/yuhfolio/src/utils"
)

type HistoryHandler struct {
	marketDataService services.MarketDataService
}

func NewHistoryHandler(marketDataService services.MarketDataService) *HistoryHandler {
	return &HistoryHandler{
		marketDataService: marketDataService,
	}
}

// HandleGetHistory serves the close-price series behind the chart selector.
// Period and interval come from fixed enumerations; defaults are 1y/1d.
func (h *HistoryHandler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")
	if ticker == "" {
		utils.SendJSONError(w, "ticker is required", http.StatusBadRequest)
		return
	}
	period := r.URL.Query().Get("period")
	interval := r.URL.Query().Get("interval")

	series, err := h.marketDataService.GetHistory(ticker, period, interval)
	if err != nil {
		logger.FromContext(r.Context()).Warn("Failed to fetch history", "ticker", ticker, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(series)
}
