package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"cryptoTrade/internal/adapters/logger" // Import the logger package for LogLevel
	"cryptoTrade/internal/domain"
)

// Storage backends for klines.
const (
	StorageCSV    = "csv"
	StorageSQLite = "sqlite"
)

// Config holds all application configuration.
type Config struct {
	// Binance API (only public endpoints are used; keys are optional)
	APIKey    string
	SecretKey string
	IsTestnet bool

	// Storage
	DataDir string
	DBPath  string
	Storage string // csv or sqlite

	// Logging
	LogLevel logger.LogLevel

	// Market selection
	Symbols  []string
	Interval string

	// Strategy selection
	Strategy string
	Filters  []string // Filter names, innermost first

	// Backtest options (percent units: 5 means 5%)
	Amount         decimal.Decimal
	StopLossPct    decimal.Decimal
	TakeProfitPct  decimal.Decimal
	TimeoutMinutes int
	FeePct         decimal.Decimal

	// Host
	MaxParallel int
	StartTime   time.Time // Zero means unbounded
	EndTime     time.Time
}

// LoadConfig loads configuration from environment variables (.env file).
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()
	return fromEnv()
}

func fromEnv() (*Config, error) {
	cfg := &Config{}
	var err error
	var errs []string // Collect validation errors

	// Binance API
	cfg.APIKey = getEnv("BINANCE_API_KEY", "")
	cfg.SecretKey = getEnv("BINANCE_API_SECRET", "")
	cfg.IsTestnet = getEnvAsBool("IS_TESTNET", false)

	// Storage
	cfg.DataDir = getEnv("DATA_DIR", "./data")
	cfg.DBPath = getEnv("DB_PATH", filepath.Join(cfg.DataDir, "backtest.db"))
	cfg.Storage = strings.ToLower(getEnv("STORAGE", StorageCSV))
	if cfg.Storage != StorageCSV && cfg.Storage != StorageSQLite {
		errs = append(errs, fmt.Sprintf("STORAGE must be %q or %q, got %q", StorageCSV, StorageSQLite, cfg.Storage))
	}

	// Logging
	cfg.LogLevel = logger.ParseLevel(getEnv("LOG_LEVEL", "INFO"))

	// Market selection
	cfg.Symbols = getEnvAsList("SYMBOLS", []string{"BTCUSDT"})
	for i, s := range cfg.Symbols {
		cfg.Symbols[i] = strings.ToUpper(s)
	}
	if len(cfg.Symbols) == 0 {
		errs = append(errs, "SYMBOLS must list at least one symbol")
	}
	cfg.Interval = getEnv("INTERVAL", "1m")

	// Strategy selection
	cfg.Strategy = getEnv("STRATEGY", "momentum")
	cfg.Filters = getEnvAsList("FILTERS", nil)

	// Backtest options
	cfg.Amount, err = getEnvAsDecimalRequired("AMOUNT_USD", decimal.NewFromInt(100))
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid AMOUNT_USD: %v", err))
	} else if !cfg.Amount.IsPositive() {
		errs = append(errs, "AMOUNT_USD must be positive")
	}

	cfg.StopLossPct, err = getEnvAsDecimalRequired("STOP_LOSS_PCT", decimal.RequireFromString("3.1"))
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid STOP_LOSS_PCT: %v", err))
	} else if !inOpenPercentRange(cfg.StopLossPct) {
		errs = append(errs, "STOP_LOSS_PCT must be between 0 and 100 (exclusive)")
	}

	cfg.TakeProfitPct, err = getEnvAsDecimalRequired("TAKE_PROFIT_PCT", decimal.RequireFromString("5.06"))
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid TAKE_PROFIT_PCT: %v", err))
	} else if !inOpenPercentRange(cfg.TakeProfitPct) {
		errs = append(errs, "TAKE_PROFIT_PCT must be between 0 and 100 (exclusive)")
	}

	cfg.TimeoutMinutes, err = getEnvAsIntRequired("TIMEOUT_MINUTES", 60)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid TIMEOUT_MINUTES: %v", err))
	} else if cfg.TimeoutMinutes <= 0 {
		errs = append(errs, "TIMEOUT_MINUTES must be positive")
	}

	cfg.FeePct, err = getEnvAsDecimalRequired("FEE_PCT", decimal.RequireFromString("0.1"))
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid FEE_PCT: %v", err))
	} else if cfg.FeePct.IsNegative() {
		errs = append(errs, "FEE_PCT cannot be negative")
	}

	// Host
	cfg.MaxParallel, err = getEnvAsIntRequired("MAX_PARALLEL", 4)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid MAX_PARALLEL: %v", err))
	} else if cfg.MaxParallel <= 0 {
		errs = append(errs, "MAX_PARALLEL must be positive")
	}

	cfg.StartTime, err = getEnvAsTime("START_TIME")
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid START_TIME: %v", err))
	}
	cfg.EndTime, err = getEnvAsTime("END_TIME")
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid END_TIME: %v", err))
	}
	if !cfg.StartTime.IsZero() && !cfg.EndTime.IsZero() && cfg.EndTime.Before(cfg.StartTime) {
		errs = append(errs, "END_TIME must not be before START_TIME")
	}

	// Combine validation errors
	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return cfg, nil
}

// BacktestConfig builds the per-symbol engine options from the loaded configuration.
func (c *Config) BacktestConfig(symbol string) domain.BacktestConfig {
	filters := make([]domain.FilterSpec, 0, len(c.Filters))
	for _, name := range c.Filters {
		filters = append(filters, domain.FilterSpec{Name: name})
	}
	return domain.BacktestConfig{
		Symbol:         symbol,
		Interval:       c.Interval,
		Amount:         c.Amount,
		StopLossPct:    c.StopLossPct,
		TakeProfitPct:  c.TakeProfitPct,
		TimeoutMinutes: c.TimeoutMinutes,
		FeePct:         c.FeePct,
		Filters:        filters,
	}
}

func inOpenPercentRange(d decimal.Decimal) bool {
	return d.IsPositive() && d.LessThan(decimal.NewFromInt(100))
}

// ParseTime accepts RFC3339, a YYYY-MM-DD date (UTC midnight) or epoch milliseconds.
func ParseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if ms, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q (want RFC3339, YYYY-MM-DD or epoch ms)", value)
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsIntRequired(key string, defaultValue int) (int, error) {
	valueStr := strings.TrimSpace(os.Getenv(key))
	if valueStr == "" {
		// Use default if env var is not set at all
		return defaultValue, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		// Return error if env var is set but invalid
		return 0, fmt.Errorf("invalid integer value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}

func getEnvAsDecimalRequired(key string, defaultValue decimal.Decimal) (decimal.Decimal, error) {
	valueStr := strings.TrimSpace(os.Getenv(key))
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := decimal.NewFromString(valueStr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := strings.TrimSpace(os.Getenv(key))
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsList splits a comma-separated value, dropping empty entries.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := strings.TrimSpace(os.Getenv(key))
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvAsTime(key string) (time.Time, error) {
	valueStr := strings.TrimSpace(os.Getenv(key))
	if valueStr == "" {
		return time.Time{}, nil
	}
	return ParseTime(valueStr)
}
