package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application.
// The values are loaded from environment variables.
type AppConfig struct {
	// Core settings
	Port         string
	DatabasePath string
	LogLevel     string

	// Upload limits
	MaxUploadSizeBytes int64

	// Market data settings
	MarketDataBaseURL string
	QuoteCacheTTL     time.Duration
	HistoryCacheTTL   time.Duration
	MarketDataTimeout time.Duration
	ReportingCurrency string

	// Portfolio summary inputs (single-user ledger, kept out of the DB)
	CashBalanceCHF  float64
	TotalDepositCHF float64

	// Frontend URL for CORS
	FrontendBaseURL string
}

// Cfg is a global instance of the AppConfig.
var Cfg *AppConfig

// LoadConfig loads configuration from environment variables or a .env file.
// It centralizes all configuration logic for the application.
func LoadConfig() {
	// Try the current directory first, then the parent (common when running from a subdir).
	errEnv := godotenv.Load()
	if errEnv != nil {
		errEnv = godotenv.Load("../.env")
	}

	if errEnv != nil {
		if os.IsNotExist(errEnv) {
			log.Println("Info: No .env file found in current or parent directory. Relying on OS environment variables (expected in production).")
		} else {
			log.Printf("Warning: Error loading .env file: %v. Relying on OS environment variables.", errEnv)
		}
	} else {
		log.Println(".env file loaded successfully.")
	}

	log.Println("Loading application configuration...")

	maxUploadSizeBytesStr := getEnv("MAX_UPLOAD_SIZE_BYTES", "10485760") // 10MB default
	maxUploadSizeBytes, err := strconv.ParseInt(maxUploadSizeBytesStr, 10, 64)
	if err != nil {
		log.Printf("WARNING: Invalid MAX_UPLOAD_SIZE_BYTES format '%s'. Using default 10MB. Error: %v", maxUploadSizeBytesStr, err)
		maxUploadSizeBytes = 10 * 1024 * 1024
	}

	Cfg = &AppConfig{
		// Core
		Port:         getEnv("PORT", "8080"),
		DatabasePath: getEnv("DATABASE_PATH", "./yuhfolio.db"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),

		// Uploads
		MaxUploadSizeBytes: maxUploadSizeBytes,

		// Market data
		MarketDataBaseURL: getEnv("MARKET_DATA_BASE_URL", "https://query1.finance.yahoo.com"),
		QuoteCacheTTL:     getEnvAsDuration("QUOTE_CACHE_TTL", 5*time.Minute),
		HistoryCacheTTL:   getEnvAsDuration("HISTORY_CACHE_TTL", time.Hour),
		MarketDataTimeout: getEnvAsDuration("MARKET_DATA_TIMEOUT", 20*time.Second),
		ReportingCurrency: getEnv("REPORTING_CURRENCY", "CHF"),

		// Summary inputs
		CashBalanceCHF:  getEnvAsFloat("CASH_BALANCE_CHF", 0),
		TotalDepositCHF: getEnvAsFloat("TOTAL_DEPOSIT_CHF", 0),

		// Frontend
		FrontendBaseURL: getEnv("APP_BASE_URL", "http://localhost:3000"),
	}

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, DBPath=%s, FrontendURL=%s",
		Cfg.Port, Cfg.LogLevel, Cfg.DatabasePath, Cfg.FrontendBaseURL)
}

// getEnv retrieves an environment variable or returns a fallback value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Environment variable %s not set, using default: %s", key, fallback)
	return fallback
}

// getEnvAsDuration retrieves an environment variable as a time.Duration or returns a fallback.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid duration value for %s ('%s'), using default: %s", key, valueStr, fallback.String())
	return fallback
}

// getEnvAsFloat retrieves an environment variable as a float64 or returns a fallback.
func getEnvAsFloat(key string, fallback float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	log.Printf("Invalid float value for %s ('%s'), using default: %f", key, valueStr, fallback)
	return fallback
}
