package app

import (
	"context"
	"fmt"
	"time"

	"cryptoTrade/internal/domain"
	"cryptoTrade/internal/ports"
	"cryptoTrade/internal/strategy"
	"cryptoTrade/internal/strategy/backtesting"
	"cryptoTrade/internal/utils"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// BacktestRequest describes one strategy run over a symbol's stored klines.
type BacktestRequest struct {
	Strategy string
	Config   domain.BacktestConfig
	Start    time.Time // Zero means unbounded
	End      time.Time
}

// Report is the outcome of one run. RunID is empty when runs are not persisted.
type Report struct {
	RunID  string
	Result *backtesting.Result
}

// BacktestService loads klines, resolves strategies and runs the backtest engine.
type BacktestService struct {
	klines      ports.KlineRepository
	runs        ports.RunRepository // Optional
	registry    *strategy.Registry
	logger      ports.Logger
	maxParallel int
	now         func() time.Time
	newID       func() string
}

// BacktestServiceConfig holds the dependencies of a BacktestService.
type BacktestServiceConfig struct {
	Klines      ports.KlineRepository
	Runs        ports.RunRepository
	Registry    *strategy.Registry
	Logger      ports.Logger
	MaxParallel int
}

// NewBacktestService creates a new BacktestService instance.
func NewBacktestService(cfg BacktestServiceConfig) (*BacktestService, error) {
	if cfg.Klines == nil || cfg.Registry == nil || cfg.Logger == nil {
		return nil, fmt.Errorf("missing required dependencies for BacktestService")
	}
	maxParallel := cfg.MaxParallel
	if maxParallel <= 0 {
		maxParallel = 1
	}
	return &BacktestService{
		klines:      cfg.Klines,
		runs:        cfg.Runs,
		registry:    cfg.Registry,
		logger:      cfg.Logger,
		maxParallel: maxParallel,
		now:         func() time.Time { return time.Now().UTC() },
		newID:       func() string { return uuid.NewString() },
	}, nil
}

// Run executes a single backtest and persists it when a RunRepository is configured.
func (s *BacktestService) Run(ctx context.Context, req BacktestRequest) (*Report, error) {
	cfg := req.Config
	strat, err := s.registry.Resolve(req.Strategy, cfg.StrategyParams, cfg.Filters)
	if err != nil {
		return nil, err
	}

	klines, err := s.klines.LoadKlines(ctx, cfg.Symbol, cfg.Interval, req.Start, req.End)
	if err != nil {
		return nil, fmt.Errorf("failed to load klines for %s %s: %w", cfg.Symbol, cfg.Interval, err)
	}
	// Repositories already bound the range; this keeps the contract for ones that don't.
	klines = utils.FilterByTime(klines, req.Start, req.End)
	if len(klines) == 0 {
		s.logger.Warn(ctx, "No klines stored for backtest", map[string]interface{}{"symbol": cfg.Symbol, "interval": cfg.Interval})
	}

	result, err := backtesting.Backtest(ctx, strat, klines, cfg, s.logger)
	if err != nil {
		return nil, fmt.Errorf("backtest %s on %s failed: %w", strat.Name(), cfg.Symbol, err)
	}

	report := &Report{Result: result}
	if s.runs == nil {
		return report, nil
	}

	report.RunID = s.newID()
	record := ports.RunRecord{
		ID:          report.RunID,
		Strategy:    result.Strategy,
		Symbol:      result.Symbol,
		Interval:    result.Interval,
		CreatedAt:   s.now(),
		TotalTrades: result.Summary.TotalTrades,
		Wins:        result.Summary.Wins,
		Losses:      result.Summary.Losses,
		TotalNetPnL: result.Summary.TotalNetPnL,
		Trades:      result.Trades,
	}
	if err := s.runs.SaveRun(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save run for %s: %w", cfg.Symbol, err)
	}
	s.logger.Info(ctx, "Backtest run saved", map[string]interface{}{"runID": report.RunID, "symbol": cfg.Symbol})
	return report, nil
}

// RunAll runs req once per symbol, at most maxParallel at a time.
// Reports are returned in the order of symbols; the first error cancels the remaining runs.
func (s *BacktestService) RunAll(ctx context.Context, symbols []string, req BacktestRequest) ([]*Report, error) {
	reports := make([]*Report, len(symbols))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxParallel)

	for i, symbol := range symbols {
		i, symbol := i, symbol
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("%w: %v", ports.ErrContextCanceled, err)
			}
			r := req
			r.Config.Symbol = symbol
			report, err := s.Run(gctx, r)
			if err != nil {
				return err
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// Runs lists persisted runs, newest first.
func (s *BacktestService) Runs(ctx context.Context, limit int) ([]ports.RunRecord, error) {
	if s.runs == nil {
		return nil, fmt.Errorf("%w: run persistence is not configured", ports.ErrConfigurationError)
	}
	return s.runs.ListRuns(ctx, limit)
}

// FindRun loads one persisted run with its trades.
func (s *BacktestService) FindRun(ctx context.Context, id string) (*ports.RunRecord, error) {
	if s.runs == nil {
		return nil, fmt.Errorf("%w: run persistence is not configured", ports.ErrConfigurationError)
	}
	return s.runs.FindRun(ctx, id)
}
