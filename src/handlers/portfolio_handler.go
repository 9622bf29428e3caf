package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/username/yuhfolio/src/logger"
	"github.com/username/yuhfolio/src/models"
	"github.com/username/yuhfolio/src/services"
	"github.com/username/yuhfolio/src/utils"
)

type PortfolioHandler struct {
	portfolioService services.PortfolioService
}

func NewPortfolioHandler(portfolioService services.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
	}
}

func (h *PortfolioHandler) HandleGetTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.portfolioService.GetTransactions()
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to load transactions", "error", err)
		utils.SendJSONError(w, "Error retrieving transactions", http.StatusInternalServerError)
		return
	}
	if transactions == nil {
		transactions = []models.Transaction{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(transactions)
}

func (h *PortfolioHandler) HandleGetPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.portfolioService.GetPositions()
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to compute positions", "error", err)
		utils.SendJSONError(w, "Error retrieving positions", http.StatusInternalServerError)
		return
	}
	if positions == nil {
		positions = []models.Position{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(positions)
}

func (h *PortfolioHandler) HandleGetPortfolio(w http.ResponseWriter, r *http.Request) {
	view, err := h.portfolioService.GetPortfolio()
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to build portfolio view", "error", err)
		utils.SendJSONError(w, "Error retrieving portfolio", http.StatusInternalServerError)
		return
	}
	if view.Positions == nil {
		view.Positions = []models.ValuedPosition{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(view)
}
