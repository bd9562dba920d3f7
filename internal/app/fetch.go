package app

import (
	"context"
	"fmt"
	"time"

	"cryptoTrade/internal/ports"
)

// FetchResult reports what one symbol/interval fetch did.
type FetchResult struct {
	Symbol   string
	Interval string
	From     time.Time
	To       time.Time
	Fetched  int
	Written  int
	UpToDate bool
}

// FetchService downloads klines from an exchange into a kline repository,
// resuming after the newest candle already stored.
type FetchService struct {
	source ports.KlineSource
	store  ports.KlineRepository
	logger ports.Logger
	now    func() time.Time
}

// NewFetchService creates a new FetchService instance.
func NewFetchService(source ports.KlineSource, store ports.KlineRepository, logger ports.Logger) (*FetchService, error) {
	if source == nil || store == nil || logger == nil {
		return nil, fmt.Errorf("missing required dependencies for FetchService")
	}
	return &FetchService{
		source: source,
		store:  store,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

// Fetch updates every symbol/interval pair in turn. start is used only when nothing is stored yet.
// Pairs run sequentially so the exchange rate limit is shared predictably.
func (s *FetchService) Fetch(ctx context.Context, symbols, intervals []string, start time.Time) ([]FetchResult, error) {
	results := make([]FetchResult, 0, len(symbols)*len(intervals))
	for _, symbol := range symbols {
		for _, interval := range intervals {
			if err := ctx.Err(); err != nil {
				return results, fmt.Errorf("%w: %v", ports.ErrContextCanceled, err)
			}
			res, err := s.fetchOne(ctx, symbol, interval, start)
			if err != nil {
				return results, err
			}
			results = append(results, res)
		}
	}
	return results, nil
}

func (s *FetchService) fetchOne(ctx context.Context, symbol, interval string, start time.Time) (FetchResult, error) {
	res := FetchResult{Symbol: symbol, Interval: interval, To: s.now()}

	last, ok, err := s.store.LastOpenTime(ctx, symbol, interval)
	if err != nil {
		return res, fmt.Errorf("failed to read last stored kline for %s %s: %w", symbol, interval, err)
	}
	switch {
	case ok:
		res.From = last.Add(time.Millisecond)
	case !start.IsZero():
		res.From = start
	default:
		return res, fmt.Errorf("%w: no klines stored for %s %s and no start time given", ports.ErrInvalidRequest, symbol, interval)
	}
	if res.From.After(res.To) {
		res.UpToDate = true
		return res, nil
	}

	s.logger.Info(ctx, "Fetching klines", map[string]interface{}{
		"symbol":   symbol,
		"interval": interval,
		"from":     res.From.Format(time.RFC3339),
		"resume":   ok,
	})
	klines, err := s.source.GetKlinesRange(ctx, symbol, interval, res.From, res.To)
	if err != nil {
		return res, fmt.Errorf("failed to fetch klines for %s %s: %w", symbol, interval, err)
	}
	res.Fetched = len(klines)
	if len(klines) == 0 {
		res.UpToDate = true
		return res, nil
	}

	res.Written, err = s.store.SaveKlines(ctx, symbol, interval, klines)
	if err != nil {
		return res, fmt.Errorf("failed to store klines for %s %s: %w", symbol, interval, err)
	}
	s.logger.Info(ctx, "Klines stored", map[string]interface{}{"symbol": symbol, "interval": interval, "fetched": res.Fetched, "written": res.Written})
	return res, nil
}

// Symbols lists the perpetual contracts available on the exchange.
func (s *FetchService) Symbols(ctx context.Context) ([]ports.SymbolInfo, error) {
	return s.source.ListSymbols(ctx)
}
