package utils

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"cryptoTrade/internal/domain"
	"cryptoTrade/internal/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleKlines(n int, from time.Time) []domain.Kline {
	out := make([]domain.Kline, n)
	for i := range out {
		open := from.Add(time.Duration(i) * time.Hour)
		out[i] = domain.Kline{
			OpenTime:            open,
			CloseTime:           open.Add(time.Hour - time.Millisecond),
			Symbol:              "BTCUSDT",
			Interval:            "1h",
			Open:                d("42000.10"),
			High:                d("42100.5"),
			Low:                 d("41950"),
			Close:               d("42050.25"),
			Volume:              d("123.456"),
			QuoteVolume:         d("5190000.12"),
			TradeCount:          int64(1000 + i),
			TakerBuyVolume:      d("60.1"),
			TakerBuyQuoteVolume: d("2520000"),
		}
	}
	return out
}

func TestCSVPath(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "BTCUSDT", "1h.csv"), CSVPath("data", "BTCUSDT", "1h"))
}

func TestKlinesCSV_WriteRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "BTCUSDT", "1h.csv")
	klines := sampleKlines(3, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	n, err := WriteKlinesToCSV(klines, path, false)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "open_time,open,high,low,close,volume,close_time,quote_volume,trades,taker_buy_volume,taker_buy_quote_volume\n")
	assert.Contains(t, string(raw), "1704067200000,42000.1,42100.5,41950,42050.25,123.456,1704070799999,")

	got, err := ReadKlinesFromCSV(path, "BTCUSDT", "1h")
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i := range klines {
		assert.True(t, klines[i].OpenTime.Equal(got[i].OpenTime))
		assert.True(t, klines[i].CloseTime.Equal(got[i].CloseTime))
		assert.True(t, klines[i].Close.Equal(got[i].Close))
		assert.True(t, klines[i].TakerBuyQuoteVolume.Equal(got[i].TakerBuyQuoteVolume))
		assert.Equal(t, klines[i].TradeCount, got[i].TradeCount)
		assert.Equal(t, "BTCUSDT", got[i].Symbol)
		assert.Equal(t, "1h", got[i].Interval)
	}
}

func TestKlinesCSV_AppendSkipsHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ETHUSDT", "1m.csv")
	klines := sampleKlines(4, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	_, err := WriteKlinesToCSV(klines[:2], path, true)
	require.NoError(t, err)
	_, err = WriteKlinesToCSV(klines[2:], path, true)
	require.NoError(t, err)

	got, err := ReadKlinesFromCSV(path, "ETHUSDT", "1m")
	require.NoError(t, err)
	assert.Len(t, got, 4)

	last, ok, err := ReadLastOpenTime(path)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, last.Equal(klines[3].OpenTime))
}

func TestKlinesCSV_MissingAndEmpty(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "nope.csv")

	got, err := ReadKlinesFromCSV(missing, "X", "1m")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, ok, err := ReadLastOpenTime(missing)
	require.NoError(t, err)
	assert.False(t, ok)

	headerOnly := filepath.Join(dir, "header.csv")
	require.NoError(t, os.WriteFile(headerOnly, []byte("open_time,open,high,low,close,volume,close_time,quote_volume,trades,taker_buy_volume,taker_buy_quote_volume\n"), 0o644))
	_, ok, err = ReadLastOpenTime(headerOnly)
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := WriteKlinesToCSV(nil, filepath.Join(dir, "none.csv"), false)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	_, err = os.Stat(filepath.Join(dir, "none.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestKlinesCSV_BadRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	content := "open_time,open,high,low,close,volume,close_time,quote_volume,trades,taker_buy_volume,taker_buy_quote_volume\n" +
		"1704067200000,abc,1,1,1,1,1704070799999,1,1,1,1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := ReadKlinesFromCSV(path, "X", "1h")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.csv:2")
	assert.Contains(t, err.Error(), "open")
}

func TestTradesCSV_WriteRead(t *testing.T) {
	entry := time.Date(2024, 2, 3, 4, 5, 59, 999000000, time.UTC)
	trades := []domain.TradeResult{
		{
			Symbol: "BTCUSDT", Side: domain.Long,
			EntryTime: entry, EntryPrice: d("100"), Amount: d("1000"),
			StopLossPrice: d("95"), TakeProfitPrice: d("110"), Deadline: entry.Add(time.Hour),
			ExitTime: entry.Add(time.Minute), ExitPrice: d("95"), ExitReason: domain.ExitStopLoss,
			GrossPnL: d("-50"), Fee: d("1"), NetPnL: d("-51"),
		},
		{
			Symbol: "BTCUSDT", Side: domain.Short,
			EntryTime: entry.Add(2 * time.Minute), EntryPrice: d("96"), Amount: d("1000"),
			StopLossPrice: d("100.8"), TakeProfitPrice: d("86.4"), Deadline: entry.Add(time.Hour),
			ExitTime: entry.Add(time.Hour), ExitPrice: d("96.5"), ExitReason: domain.ExitTimeout,
			GrossPnL: d("-5.2083333333333333"), Fee: d("1"), NetPnL: d("-6.2083333333333333"),
		},
	}

	path := filepath.Join(t.TempDir(), "out", "trades.csv")
	require.NoError(t, WriteTradesToCSV(trades, path))

	got, err := ReadTradesFromCSV(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for i := range trades {
		assert.Equal(t, trades[i].Side, got[i].Side)
		assert.Equal(t, trades[i].ExitReason, got[i].ExitReason)
		assert.True(t, trades[i].EntryTime.Equal(got[i].EntryTime))
		assert.True(t, trades[i].ExitTime.Equal(got[i].ExitTime))
		assert.True(t, trades[i].NetPnL.Equal(got[i].NetPnL))
		assert.True(t, trades[i].StopLossPrice.Equal(got[i].StopLossPrice))
	}
}

func TestTradesCSV_InvalidSide(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trades.csv")
	require.NoError(t, WriteTradesToCSV([]domain.TradeResult{{Side: "sideways"}}, path))
	_, err := ReadTradesFromCSV(path)
	assert.ErrorContains(t, err, "invalid side")
}

func TestCSVStore(t *testing.T) {
	ctx := context.Background()
	store, err := NewCSVStore(t.TempDir())
	require.NoError(t, err)

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	klines := sampleKlines(5, from)

	_, ok, err := store.LastOpenTime(ctx, "BTCUSDT", "1h")
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := store.SaveKlines(ctx, "BTCUSDT", "1h", klines[:3])
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// Overlapping batch only appends the new rows.
	n, err = store.SaveKlines(ctx, "BTCUSDT", "1h", klines[1:])
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	last, ok, err := store.LastOpenTime(ctx, "BTCUSDT", "1h")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, last.Equal(klines[4].OpenTime))

	all, err := store.LoadKlines(ctx, "BTCUSDT", "1h", time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Len(t, all, 5)

	bounded, err := store.LoadKlines(ctx, "BTCUSDT", "1h", from.Add(time.Hour), from.Add(3*time.Hour))
	require.NoError(t, err)
	require.Len(t, bounded, 3)
	assert.True(t, bounded[0].OpenTime.Equal(from.Add(time.Hour)))

	_, err = NewCSVStore("")
	assert.Error(t, err)
}

func TestCSVStore_WrapsUnderlyingError(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewCSVStore(dir)
	require.NoError(t, err)

	path := CSVPath(dir, "BTCUSDT", "1h")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	content := "open_time,open,high,low,close,volume,close_time,quote_volume,trades,taker_buy_volume,taker_buy_quote_volume\n" +
		"yesterday,1,1,1,1,1,1704070799999,1,1,1,1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err = store.LoadKlines(ctx, "BTCUSDT", "1h", time.Time{}, time.Time{})
	require.ErrorIs(t, err, ports.ErrStorage)
	require.ErrorIs(t, err, strconv.ErrSyntax)

	_, _, err = store.LastOpenTime(ctx, "BTCUSDT", "1h")
	require.ErrorIs(t, err, ports.ErrStorage)
	require.ErrorIs(t, err, strconv.ErrSyntax)

	_, err = store.SaveKlines(ctx, "BTCUSDT", "1h", sampleKlines(1, time.Now()))
	require.ErrorIs(t, err, ports.ErrStorage)
	require.ErrorIs(t, err, strconv.ErrSyntax)
}
