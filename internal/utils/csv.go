// Package utils holds CSV persistence for klines and trade results.
package utils

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"cryptoTrade/internal/domain"

	"github.com/shopspring/decimal"
)

// KlineHeader is the column layout of kline CSV files. Times are epoch milliseconds.
var KlineHeader = []string{
	"open_time", "open", "high", "low", "close", "volume",
	"close_time", "quote_volume", "trades", "taker_buy_volume", "taker_buy_quote_volume",
}

// CSVPath returns <dataDir>/<symbol>/<interval>.csv.
func CSVPath(dataDir, symbol, interval string) string {
	return filepath.Join(dataDir, symbol, interval+".csv")
}

// WriteKlinesToCSV writes klines to filename. With appendRows the header is
// skipped and rows are added to the end of an existing file.
// It returns the number of rows written.
func WriteKlinesToCSV(klines []domain.Kline, filename string, appendRows bool) (int, error) {
	if len(klines) == 0 {
		return 0, nil
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return 0, fmt.Errorf("failed to create directory for %s: %w", filename, err)
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	writeHeader := true
	if appendRows {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
		if info, err := os.Stat(filename); err == nil && info.Size() > 0 {
			writeHeader = false
		}
	}
	file, err := os.OpenFile(filename, flags, 0o644)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", filename, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if writeHeader {
		if err := writer.Write(KlineHeader); err != nil {
			return 0, err
		}
	}
	for _, k := range klines {
		if err := writer.Write(klineRow(k)); err != nil {
			return 0, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return len(klines), nil
}

// ReadKlinesFromCSV reads every kline in filename. A missing file yields no klines.
// Symbol and interval are not stored in the file and are set from the arguments.
func ReadKlinesFromCSV(filename, symbol, interval string) ([]domain.Kline, error) {
	file, err := os.Open(filename)
	if errors.Is(err, os.ErrNotExist) {
		return []domain.Kline{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = len(KlineHeader)
	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return []domain.Kline{}, nil
		}
		return nil, fmt.Errorf("failed to read header of %s: %w", filename, err)
	}

	klines := []domain.Kline{}
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", filename, line, err)
		}
		k, err := parseKlineRow(row)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", filename, line, err)
		}
		k.Symbol = symbol
		k.Interval = interval
		klines = append(klines, k)
	}
	return klines, nil
}

// ReadLastOpenTime returns the open time of the last row in filename.
// ok is false when the file is missing or holds only a header.
func ReadLastOpenTime(filename string) (t time.Time, ok bool, err error) {
	file, err := os.Open(filename)
	if errors.Is(err, os.ErrNotExist) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to open %s: %w", filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	var last []string
	for first := true; ; first = false {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return time.Time{}, false, fmt.Errorf("failed to read %s: %w", filename, err)
		}
		if !first {
			last = row
		}
	}
	if last == nil {
		return time.Time{}, false, nil
	}
	ms, err := strconv.ParseInt(last[0], 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid open_time %q in %s: %w", last[0], filename, err)
	}
	return time.UnixMilli(ms).UTC(), true, nil
}

func klineRow(k domain.Kline) []string {
	return []string{
		strconv.FormatInt(k.OpenTime.UnixMilli(), 10),
		k.Open.String(),
		k.High.String(),
		k.Low.String(),
		k.Close.String(),
		k.Volume.String(),
		strconv.FormatInt(k.CloseTime.UnixMilli(), 10),
		k.QuoteVolume.String(),
		strconv.FormatInt(k.TradeCount, 10),
		k.TakerBuyVolume.String(),
		k.TakerBuyQuoteVolume.String(),
	}
}

func parseKlineRow(row []string) (domain.Kline, error) {
	var k domain.Kline
	openMs, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return k, fmt.Errorf("invalid open_time %q: %w", row[0], err)
	}
	closeMs, err := strconv.ParseInt(row[6], 10, 64)
	if err != nil {
		return k, fmt.Errorf("invalid close_time %q: %w", row[6], err)
	}
	trades, err := strconv.ParseInt(row[8], 10, 64)
	if err != nil {
		return k, fmt.Errorf("invalid trades %q: %w", row[8], err)
	}
	k.OpenTime = time.UnixMilli(openMs).UTC()
	k.CloseTime = time.UnixMilli(closeMs).UTC()
	k.TradeCount = trades

	fields := []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{
		{"open", row[1], &k.Open},
		{"high", row[2], &k.High},
		{"low", row[3], &k.Low},
		{"close", row[4], &k.Close},
		{"volume", row[5], &k.Volume},
		{"quote_volume", row[7], &k.QuoteVolume},
		{"taker_buy_volume", row[9], &k.TakerBuyVolume},
		{"taker_buy_quote_volume", row[10], &k.TakerBuyQuoteVolume},
	}
	for _, f := range fields {
		v, err := decimal.NewFromString(f.raw)
		if err != nil {
			return k, fmt.Errorf("invalid %s %q: %w", f.name, f.raw, err)
		}
		*f.dst = v
	}
	return k, nil
}
