package ports

import (
	"context"
	"time"

	"cryptoTrade/internal/domain"

	"github.com/shopspring/decimal"
)

// KlineRepository stores and loads historical klines.
type KlineRepository interface {
	// SaveKlines persists klines, skipping any open time already stored. Returns rows written.
	SaveKlines(ctx context.Context, symbol, interval string, klines []domain.Kline) (int, error)
	// LoadKlines returns klines ordered by open time. Zero start/end means unbounded.
	LoadKlines(ctx context.Context, symbol, interval string, start, end time.Time) ([]domain.Kline, error)
	// LastOpenTime returns the newest stored open time, or false when nothing is stored.
	LastOpenTime(ctx context.Context, symbol, interval string) (time.Time, bool, error)
}

// RunRecord is a persisted backtest run.
type RunRecord struct {
	ID          string
	Strategy    string
	Symbol      string
	Interval    string
	CreatedAt   time.Time
	TotalTrades int
	Wins        int
	Losses      int
	TotalNetPnL decimal.Decimal
	Trades      []domain.TradeResult
}

// RunRepository persists backtest runs and their trades.
type RunRepository interface {
	// SaveRun stores the run header and every trade in one transaction.
	SaveRun(ctx context.Context, run RunRecord) error
	// FindRun loads a run with its trades. Returns ErrNotFound when missing.
	FindRun(ctx context.Context, id string) (*RunRecord, error)
	// ListRuns returns the newest run headers first, without trades.
	ListRuns(ctx context.Context, limit int) ([]RunRecord, error)
}
