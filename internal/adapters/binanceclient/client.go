package binanceclient

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"cryptoTrade/internal/domain"
	"cryptoTrade/internal/ports"

	"github.com/adshao/go-binance/v2/common"
	"github.com/adshao/go-binance/v2/futures"
	"github.com/jpillora/backoff"
	"github.com/shopspring/decimal"
)

const (
	// Base URLs
	baseURLProduction = "https://fapi.binance.com"
	baseURLTestnet    = "https://testnet.binancefuture.com"

	// maxLimit is the largest page the futures klines endpoint serves.
	maxLimit = 1500
)

// Client implements ports.KlineSource on top of the Binance USDⓈ-M futures REST API.
type Client struct {
	futuresClient *futures.Client
	logger        ports.Logger
	pageLimit     int
	maxRetries    int
	retryMin      time.Duration
	retryMax      time.Duration
}

// Config holds configuration specific to the Binance client adapter.
type Config struct {
	APIKey     string
	SecretKey  string
	UseTestnet bool
	BaseURL    string // Overrides the production/testnet URL when set
	Logger     ports.Logger
	PageLimit  int           // Klines per request, at most 1500
	MaxRetries int           // Retries of a throttled or failed page request
	RetryMin   time.Duration // First retry delay (e.g., 500 * time.Millisecond)
	RetryMax   time.Duration
}

// New creates a new Binance client adapter.
func New(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for Binance client")
	}
	if cfg.APIKey == "" || cfg.SecretKey == "" {
		// Klines and exchange info are public endpoints.
		cfg.Logger.Debug(context.Background(), "APIKey or SecretKey is empty, using public endpoints only")
	}

	client := futures.NewClient(cfg.APIKey, cfg.SecretKey)

	// Set BaseURL directly instead of using global futures.UseTestnet
	switch {
	case cfg.BaseURL != "":
		client.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	case cfg.UseTestnet:
		client.BaseURL = baseURLTestnet
	default:
		client.BaseURL = baseURLProduction
	}
	cfg.Logger.Info(context.Background(), "Binance client configured", map[string]interface{}{"baseURL": client.BaseURL, "testnet": cfg.UseTestnet})

	pageLimit := cfg.PageLimit
	if pageLimit <= 0 || pageLimit > maxLimit {
		pageLimit = maxLimit
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	} else if maxRetries == 0 {
		maxRetries = 5
	}
	retryMin := cfg.RetryMin
	if retryMin <= 0 {
		retryMin = 500 * time.Millisecond
	}
	retryMax := cfg.RetryMax
	if retryMax < retryMin {
		retryMax = 30 * time.Second
	}

	return &Client{
		futuresClient: client,
		logger:        cfg.Logger,
		pageLimit:     pageLimit,
		maxRetries:    maxRetries,
		retryMin:      retryMin,
		retryMax:      retryMax,
	}, nil
}

// handleError translates common Binance API errors into standardized ports errors.
func (c *Client) handleError(ctx context.Context, err error, operation string) error {
	if err == nil {
		return nil
	}

	fields := map[string]interface{}{"operation": operation, "originalError": err.Error()}

	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		fields["apiErrorCode"] = apiErr.Code
		fields["apiErrorMessage"] = apiErr.Message

		var mappedErr error
		switch apiErr.Code {
		case -1003: // Too many requests
			mappedErr = ports.ErrRateLimited
		case -1001, -1007: // Internal error, timeout waiting for backend
			mappedErr = ports.ErrExchangeUnavailable
		case -1021: // Timestamp for this request is outside of the recvWindow
			mappedErr = ports.ErrTimeout
		case -1022, -2014, -2015: // Signature or API-key rejected
			mappedErr = ports.ErrAuthenticationFailed
		case -1100, -1101, -1102, -1103, -1104, -1105, -1106, -1111, -1120, -1121, -1130: // Parameter/Request format errors
			mappedErr = ports.ErrInvalidRequest
		default:
			mappedErr = ports.ErrUnknown
		}
		c.logger.Error(ctx, err, fmt.Sprintf("%s failed with API error", operation), fields)
		return fmt.Errorf("%s failed: %w: %w", operation, mappedErr, err)
	}

	// Handle non-API errors (network, context cancellation, etc.)
	var finalErr error
	if errors.Is(err, context.DeadlineExceeded) {
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrTimeout, err)
	} else if errors.Is(err, context.Canceled) {
		finalErr = fmt.Errorf("%s operation canceled: %w: %w", operation, ports.ErrContextCanceled, err)
	} else if strings.Contains(err.Error(), "use of closed network connection") ||
		strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "connection reset by peer") {
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrConnectionFailed, err)
	} else {
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrUnknown, err)
	}

	c.logger.Error(ctx, err, fmt.Sprintf("%s failed", operation), fields)
	return finalErr
}

// retryable reports whether a translated error may succeed on a later attempt.
func retryable(err error) bool {
	return errors.Is(err, ports.ErrRateLimited) ||
		errors.Is(err, ports.ErrConnectionFailed) ||
		errors.Is(err, ports.ErrExchangeUnavailable)
}

// withRetry runs call until it succeeds, fails permanently, or retries run out.
func (c *Client) withRetry(ctx context.Context, op string, call func() error) error {
	b := &backoff.Backoff{Min: c.retryMin, Max: c.retryMax, Factor: 2, Jitter: true}
	for {
		err := call()
		if err == nil || !retryable(err) || int(b.Attempt()) >= c.maxRetries {
			return err
		}
		delay := b.Duration()
		c.logger.Warn(ctx, op+": request failed, retrying", map[string]interface{}{"attempt": int(b.Attempt()), "delay": delay.String()})
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("%s operation canceled: %w: %w", op, ports.ErrContextCanceled, ctx.Err())
		}
	}
}

// GetKlinesRange fetches all klines for a symbol/interval with open time in [start, end],
// paging forward from the last open time received.
func (c *Client) GetKlinesRange(ctx context.Context, symbol, interval string, start, end time.Time) ([]domain.Kline, error) {
	op := "GetKlinesRange"
	if end.Before(start) {
		return nil, fmt.Errorf("%s failed: %w: end %s is before start %s", op, ports.ErrInvalidRequest, end.Format(time.RFC3339), start.Format(time.RFC3339))
	}

	allKlines := make([]domain.Kline, 0)
	from := start
	for {
		var page []*futures.Kline
		err := c.withRetry(ctx, op, func() error {
			var err error
			page, err = c.futuresClient.NewKlinesService().
				Symbol(symbol).
				Interval(interval).
				StartTime(from.UnixMilli()).
				EndTime(end.UnixMilli()).
				Limit(c.pageLimit).
				Do(ctx)
			return c.handleError(ctx, err, op)
		})
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}
		for _, bk := range page {
			dk, err := translateBinanceKline(bk, symbol, interval)
			if err != nil {
				return nil, c.handleError(ctx, fmt.Errorf("failed to translate historical kline range: %w", err), op)
			}
			// Pages may overlap on their boundary candle.
			if n := len(allKlines); n > 0 && !dk.OpenTime.After(allKlines[n-1].OpenTime) {
				continue
			}
			allKlines = append(allKlines, dk)
		}
		from = time.UnixMilli(page[len(page)-1].OpenTime + 1)
		if from.After(end) || len(page) < c.pageLimit {
			break
		}
	}

	c.logger.Debug(ctx, op+" completed", map[string]interface{}{"symbol": symbol, "interval": interval, "klines": len(allKlines)})
	return allKlines, nil
}

// ListSymbols returns the perpetual contracts of the exchange, sorted by symbol.
func (c *Client) ListSymbols(ctx context.Context) ([]ports.SymbolInfo, error) {
	op := "ListSymbols"
	var info *futures.ExchangeInfo
	err := c.withRetry(ctx, op, func() error {
		var err error
		info, err = c.futuresClient.NewExchangeInfoService().Do(ctx)
		return c.handleError(ctx, err, op)
	})
	if err != nil {
		return nil, err
	}

	symbols := make([]ports.SymbolInfo, 0, len(info.Symbols))
	for _, s := range info.Symbols {
		if s.ContractType != futures.ContractTypePerpetual {
			continue
		}
		symbols = append(symbols, ports.SymbolInfo{Symbol: s.Symbol, Status: s.Status})
	}
	sort.Slice(symbols, func(i, j int) bool { return symbols[i].Symbol < symbols[j].Symbol })
	return symbols, nil
}

// --- Translation Helpers ---

func translateBinanceKline(bk *futures.Kline, symbol, interval string) (domain.Kline, error) {
	if bk == nil {
		return domain.Kline{}, errors.New("received nil historical kline")
	}
	k := domain.Kline{
		OpenTime:   time.UnixMilli(bk.OpenTime).UTC(),
		CloseTime:  time.UnixMilli(bk.CloseTime).UTC(),
		Symbol:     symbol, // Use passed symbol as it's not in futures.Kline
		Interval:   interval,
		TradeCount: bk.TradeNum,
	}
	fields := []struct {
		name     string
		raw      string
		dst      *decimal.Decimal
		optional bool
	}{
		{"open price", bk.Open, &k.Open, false},
		{"high price", bk.High, &k.High, false},
		{"low price", bk.Low, &k.Low, false},
		{"close price", bk.Close, &k.Close, false},
		{"volume", bk.Volume, &k.Volume, false},
		{"quote volume", bk.QuoteAssetVolume, &k.QuoteVolume, true},
		{"taker buy volume", bk.TakerBuyBaseAssetVolume, &k.TakerBuyVolume, true},
		{"taker buy quote volume", bk.TakerBuyQuoteAssetVolume, &k.TakerBuyQuoteVolume, true},
	}
	for _, f := range fields {
		if f.raw == "" && f.optional {
			continue
		}
		v, err := decimal.NewFromString(f.raw)
		if err != nil {
			return domain.Kline{}, fmt.Errorf("parsing %s '%s': %w", f.name, f.raw, err)
		}
		*f.dst = v
	}
	return k, nil
}

var _ ports.KlineSource = (*Client)(nil)
