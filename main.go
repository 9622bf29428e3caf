package main

import (
	"encoding/json"
	stdlog "log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/patrickmn/go-cache"
	"github.com/username/yuhfolio/src/config"
	"github.com/username/yuhfolio/src/database"
	"github.com/username/yuhfolio/src/handlers"
	"github.com/username/yuhfolio/src/logger"
	"github.com/username/yuhfolio/src/processors"
	"github.com/username/yuhfolio/src/services"
	"golang.org/x/time/rate"
)

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded", "path", r.URL.Path)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowedOrigins := map[string]bool{
			"http://localhost:3000":    true,
			config.Cfg.FrontendBaseURL: true,
		}

		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, X-Requested-With")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	logger.L.Info("Yuhfolio backend server starting...")

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	database.RunMigrations(config.Cfg.DatabasePath)

	reportCache := cache.New(services.DefaultCacheExpiration, services.CacheCleanupInterval)

	marketDataService := services.NewMarketDataService(
		config.Cfg.MarketDataBaseURL,
		config.Cfg.QuoteCacheTTL,
		config.Cfg.HistoryCacheTTL,
		config.Cfg.MarketDataTimeout,
	)

	positionProcessor := processors.NewPositionProcessor()
	valuationProcessor := processors.NewValuationProcessor()

	portfolioService := services.NewPortfolioService(
		marketDataService,
		positionProcessor,
		valuationProcessor,
		reportCache,
		config.Cfg.CashBalanceCHF,
		config.Cfg.TotalDepositCHF,
	)
	importService := services.NewImportService(positionProcessor, portfolioService)

	importHandler := handlers.NewImportHandler(importService)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService)
	watchlistHandler := handlers.NewWatchlistHandler()
	historyHandler := handlers.NewHistoryHandler(marketDataService)

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(handlers.ContextualLoggerMiddleware)
	r.Use(enableCORS)
	r.Use(rateLimitMiddleware)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "Yuhfolio Backend is running"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/import", importHandler.HandleImport)
		r.Get("/transactions", portfolioHandler.HandleGetTransactions)
		r.Get("/positions", portfolioHandler.HandleGetPositions)
		r.Get("/portfolio", portfolioHandler.HandleGetPortfolio)

		r.Get("/watchlist", watchlistHandler.HandleGetWatchlist)
		r.Post("/watchlist", watchlistHandler.HandleAddWatchlistEntry)
		r.Delete("/watchlist/{ticker}", watchlistHandler.HandleRemoveWatchlistEntry)

		r.Get("/history/{ticker}", historyHandler.HandleGetHistory)
	})

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		stdlog.Fatalf("Failed to start server: %v", err)
	}
}
