package utils

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"cryptoTrade/internal/domain"

	"github.com/shopspring/decimal"
)

// TradeHeader is the column layout of exported trade CSV files. Times are RFC3339.
var TradeHeader = []string{
	"symbol", "side", "entry_time", "entry_price", "amount", "stop_loss", "take_profit", "deadline",
	"exit_time", "exit_price", "exit_reason", "gross_pnl", "fee", "net_pnl",
}

// WriteTradesToCSV writes trades to filename, replacing any existing file.
func WriteTradesToCSV(trades []domain.TradeResult, filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", filename, err)
	}
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(TradeHeader); err != nil {
		return err
	}
	for _, t := range trades {
		row := []string{
			t.Symbol,
			string(t.Side),
			t.EntryTime.UTC().Format(time.RFC3339Nano),
			t.EntryPrice.String(),
			t.Amount.String(),
			t.StopLossPrice.String(),
			t.TakeProfitPrice.String(),
			t.Deadline.UTC().Format(time.RFC3339Nano),
			t.ExitTime.UTC().Format(time.RFC3339Nano),
			t.ExitPrice.String(),
			string(t.ExitReason),
			t.GrossPnL.String(),
			t.Fee.String(),
			t.NetPnL.String(),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// ReadTradesFromCSV reads a file produced by WriteTradesToCSV.
func ReadTradesFromCSV(filename string) ([]domain.TradeResult, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = len(TradeHeader)
	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return []domain.TradeResult{}, nil
		}
		return nil, fmt.Errorf("failed to read header of %s: %w", filename, err)
	}

	trades := []domain.TradeResult{}
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", filename, line, err)
		}
		t, err := parseTradeRow(row)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", filename, line, err)
		}
		trades = append(trades, t)
	}
	return trades, nil
}

func parseTradeRow(row []string) (domain.TradeResult, error) {
	t := domain.TradeResult{
		Symbol:     row[0],
		Side:       domain.Side(row[1]),
		ExitReason: domain.ExitReason(row[10]),
	}
	if t.Side != domain.Long && t.Side != domain.Short {
		return t, fmt.Errorf("invalid side %q", row[1])
	}

	times := []struct {
		name string
		raw  string
		dst  *time.Time
	}{
		{"entry_time", row[2], &t.EntryTime},
		{"deadline", row[7], &t.Deadline},
		{"exit_time", row[8], &t.ExitTime},
	}
	for _, f := range times {
		v, err := time.Parse(time.RFC3339Nano, f.raw)
		if err != nil {
			return t, fmt.Errorf("invalid %s %q: %w", f.name, f.raw, err)
		}
		*f.dst = v.UTC()
	}

	decimals := []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{
		{"entry_price", row[3], &t.EntryPrice},
		{"amount", row[4], &t.Amount},
		{"stop_loss", row[5], &t.StopLossPrice},
		{"take_profit", row[6], &t.TakeProfitPrice},
		{"exit_price", row[9], &t.ExitPrice},
		{"gross_pnl", row[11], &t.GrossPnL},
		{"fee", row[12], &t.Fee},
		{"net_pnl", row[13], &t.NetPnL},
	}
	for _, f := range decimals {
		v, err := decimal.NewFromString(f.raw)
		if err != nil {
			return t, fmt.Errorf("invalid %s %q: %w", f.name, f.raw, err)
		}
		*f.dst = v
	}
	return t, nil
}
