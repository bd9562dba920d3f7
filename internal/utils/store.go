package utils

import (
	"context"
	"fmt"
	"time"

	"cryptoTrade/internal/domain"
	"cryptoTrade/internal/ports"
)

// CSVStore implements ports.KlineRepository on the per-symbol CSV layout.
type CSVStore struct {
	dataDir string
}

// NewCSVStore creates a store rooted at dataDir.
func NewCSVStore(dataDir string) (*CSVStore, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("data directory is required for CSV store")
	}
	return &CSVStore{dataDir: dataDir}, nil
}

// SaveKlines appends klines newer than the last stored open time and returns how
// many were written.
func (s *CSVStore) SaveKlines(ctx context.Context, symbol, interval string, klines []domain.Kline) (int, error) {
	path := CSVPath(s.dataDir, symbol, interval)
	last, ok, err := ReadLastOpenTime(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ports.ErrStorage, err)
	}
	fresh := klines
	if ok {
		fresh = make([]domain.Kline, 0, len(klines))
		for _, k := range klines {
			if k.OpenTime.After(last) {
				fresh = append(fresh, k)
			}
		}
	}
	n, err := WriteKlinesToCSV(fresh, path, true)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ports.ErrStorage, err)
	}
	return n, nil
}

// LoadKlines reads klines with start <= open time <= end. Zero bounds are open.
func (s *CSVStore) LoadKlines(ctx context.Context, symbol, interval string, start, end time.Time) ([]domain.Kline, error) {
	all, err := ReadKlinesFromCSV(CSVPath(s.dataDir, symbol, interval), symbol, interval)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrStorage, err)
	}
	return FilterByTime(all, start, end), nil
}

// LastOpenTime returns the open time of the newest stored kline.
func (s *CSVStore) LastOpenTime(ctx context.Context, symbol, interval string) (time.Time, bool, error) {
	t, ok, err := ReadLastOpenTime(CSVPath(s.dataDir, symbol, interval))
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%w: %w", ports.ErrStorage, err)
	}
	return t, ok, nil
}

// FilterByTime keeps klines with start <= open time <= end. Zero bounds are open.
func FilterByTime(klines []domain.Kline, start, end time.Time) []domain.Kline {
	out := make([]domain.Kline, 0, len(klines))
	for _, k := range klines {
		if !start.IsZero() && k.OpenTime.Before(start) {
			continue
		}
		if !end.IsZero() && k.OpenTime.After(end) {
			continue
		}
		out = append(out, k)
	}
	return out
}

var _ ports.KlineRepository = (*CSVStore)(nil)
