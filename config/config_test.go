package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptoTrade/internal/adapters/logger"
)

var allKeys = []string{
	"BINANCE_API_KEY", "BINANCE_API_SECRET", "IS_TESTNET", "DATA_DIR", "DB_PATH", "STORAGE",
	"LOG_LEVEL", "SYMBOLS", "INTERVAL", "STRATEGY", "FILTERS", "AMOUNT_USD", "STOP_LOSS_PCT",
	"TAKE_PROFIT_PCT", "TIMEOUT_MINUTES", "FEE_PCT", "MAX_PARALLEL", "START_TIME", "END_TIME",
}

// clearEnv blanks every key so the host environment cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := fromEnv()
	require.NoError(t, err)
	assert.Equal(t, StorageCSV, cfg.Storage)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, "data/backtest.db", cfg.DBPath)
	assert.Equal(t, []string{"BTCUSDT"}, cfg.Symbols)
	assert.Equal(t, "1m", cfg.Interval)
	assert.Equal(t, "momentum", cfg.Strategy)
	assert.Empty(t, cfg.Filters)
	assert.True(t, cfg.Amount.Equal(decimal.NewFromInt(100)))
	assert.True(t, cfg.StopLossPct.Equal(decimal.RequireFromString("3.1")))
	assert.True(t, cfg.TakeProfitPct.Equal(decimal.RequireFromString("5.06")))
	assert.Equal(t, 60, cfg.TimeoutMinutes)
	assert.Equal(t, 4, cfg.MaxParallel)
	assert.Equal(t, logger.LevelInfo, cfg.LogLevel)
	assert.True(t, cfg.StartTime.IsZero())
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SYMBOLS", " btcusdt, ETHUSDT ,,")
	t.Setenv("FILTERS", "range_spike_filter,volume_filter")
	t.Setenv("STORAGE", "SQLite")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("START_TIME", "2024-01-01T00:00:00Z")
	t.Setenv("END_TIME", "1706745600000")
	t.Setenv("FEE_PCT", "0")

	cfg, err := fromEnv()
	require.NoError(t, err)
	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT"}, cfg.Symbols)
	assert.Equal(t, []string{"range_spike_filter", "volume_filter"}, cfg.Filters)
	assert.Equal(t, StorageSQLite, cfg.Storage)
	assert.Equal(t, logger.LevelDebug, cfg.LogLevel)
	assert.True(t, cfg.StartTime.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, cfg.EndTime.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, cfg.FeePct.IsZero())

	bc := cfg.BacktestConfig("ETHUSDT")
	assert.Equal(t, "ETHUSDT", bc.Symbol)
	assert.Equal(t, "1m", bc.Interval)
	require.Len(t, bc.Filters, 2)
	assert.Equal(t, "range_spike_filter", bc.Filters[0].Name)
}

func TestFromEnv_CollectsAllErrors(t *testing.T) {
	clearEnv(t)
	t.Setenv("AMOUNT_USD", "0")
	t.Setenv("STOP_LOSS_PCT", "abc")
	t.Setenv("TAKE_PROFIT_PCT", "100")
	t.Setenv("TIMEOUT_MINUTES", "-5")
	t.Setenv("FEE_PCT", "-0.1")
	t.Setenv("STORAGE", "postgres")
	t.Setenv("START_TIME", "2024-02-01")
	t.Setenv("END_TIME", "2024-01-01")

	_, err := fromEnv()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "configuration validation failed")
	for _, want := range []string{"AMOUNT_USD", "STOP_LOSS_PCT", "TAKE_PROFIT_PCT", "TIMEOUT_MINUTES", "FEE_PCT", "STORAGE", "END_TIME"} {
		assert.Contains(t, msg, want)
	}
}

func TestParseTime(t *testing.T) {
	want := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{name: "rfc3339", input: "2024-03-01T12:00:00Z", want: want},
		{name: "rfc3339 offset", input: "2024-03-01T14:00:00+02:00", want: want},
		{name: "epoch ms", input: "1709294400000", want: want},
		{name: "date", input: "2024-03-01", want: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{name: "garbage", input: "yesterday", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTime(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %s", got)
		})
	}
}
