package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cryptoTrade/internal/domain"
	"cryptoTrade/internal/ports"
)

// --- RunRepository Implementation ---

// SaveRun stores the run header and its trades in one transaction.
func (r *Repository) SaveRun(ctx context.Context, run ports.RunRecord) error {
	if run.ID == "" {
		return fmt.Errorf("%w: run id is required", ports.ErrInvalidRequest)
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to begin run transaction: %v", ports.ErrQueryFailed, err)
	}
	defer tx.Rollback()

	const runQuery = `
	INSERT INTO backtest_runs (id, strategy, symbol, interval, created_at, total_trades, wins, losses, total_net_pnl)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, runQuery, run.ID, run.Strategy, run.Symbol, run.Interval,
		toMillis(run.CreatedAt), run.TotalTrades, run.Wins, run.Losses, text(run.TotalNetPnL)); err != nil {
		return fmt.Errorf("%w: failed to insert run %s: %v", ports.ErrQueryFailed, run.ID, err)
	}

	const tradeQuery = `
	INSERT INTO trade_results (run_id, seq, symbol, side, entry_time, entry_price, amount, stop_loss, take_profit,
	                           deadline, exit_time, exit_price, exit_reason, gross_pnl, fee, net_pnl)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	stmt, err := tx.PrepareContext(ctx, tradeQuery)
	if err != nil {
		return fmt.Errorf("%w: failed to prepare trade insert: %v", ports.ErrQueryFailed, err)
	}
	defer stmt.Close()

	for i, t := range run.Trades {
		if _, err := stmt.ExecContext(ctx, run.ID, i, t.Symbol, string(t.Side),
			toMillis(t.EntryTime), text(t.EntryPrice), text(t.Amount), text(t.StopLossPrice), text(t.TakeProfitPrice),
			toMillis(t.Deadline), toMillis(t.ExitTime), text(t.ExitPrice), string(t.ExitReason),
			text(t.GrossPnL), text(t.Fee), text(t.NetPnL)); err != nil {
			return fmt.Errorf("%w: failed to insert trade %d of run %s: %v", ports.ErrQueryFailed, i, run.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit run %s: %v", ports.ErrQueryFailed, run.ID, err)
	}
	r.logger.Debug(ctx, "Backtest run saved", map[string]interface{}{"runID": run.ID, "trades": len(run.Trades)})
	return nil
}

// FindRun loads a run header and its trades in execution order.
func (r *Repository) FindRun(ctx context.Context, id string) (*ports.RunRecord, error) {
	const runQuery = `
	SELECT id, strategy, symbol, interval, created_at, total_trades, wins, losses, total_net_pnl
	FROM backtest_runs WHERE id = ?`

	run, err := scanRun(r.db.QueryRowContext(ctx, runQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("run %s: %w", id, ports.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: failed to query run %s: %v", ports.ErrQueryFailed, id, err)
	}

	const tradeQuery = `
	SELECT symbol, side, entry_time, entry_price, amount, stop_loss, take_profit,
	       deadline, exit_time, exit_price, exit_reason, gross_pnl, fee, net_pnl
	FROM trade_results WHERE run_id = ? ORDER BY seq ASC`

	rows, err := r.db.QueryContext(ctx, tradeQuery, id)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query trades of run %s: %v", ports.ErrQueryFailed, id, err)
	}
	defer rows.Close()

	run.Trades = make([]domain.TradeResult, 0, run.TotalTrades)
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to scan trade: %v", ports.ErrQueryFailed, err)
		}
		run.Trades = append(run.Trades, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating trade rows: %v", ports.ErrQueryFailed, err)
	}
	return run, nil
}

// ListRuns returns up to limit run headers, newest first.
func (r *Repository) ListRuns(ctx context.Context, limit int) ([]ports.RunRecord, error) {
	const query = `
	SELECT id, strategy, symbol, interval, created_at, total_trades, wins, losses, total_net_pnl
	FROM backtest_runs ORDER BY created_at DESC, id ASC LIMIT ?`

	if limit <= 0 {
		limit = -1 // no limit
	}
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list runs: %v", ports.ErrQueryFailed, err)
	}
	defer rows.Close()

	runs := make([]ports.RunRecord, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to scan run: %v", ports.ErrQueryFailed, err)
		}
		runs = append(runs, *run)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating run rows: %v", ports.ErrQueryFailed, err)
	}
	return runs, nil
}

func scanRun(s scanner) (*ports.RunRecord, error) {
	run := &ports.RunRecord{}
	var createdMs int64
	err := s.Scan(&run.ID, &run.Strategy, &run.Symbol, &run.Interval, &createdMs,
		&run.TotalTrades, &run.Wins, &run.Losses, &run.TotalNetPnL)
	if err != nil {
		return nil, err // Handle sql.ErrNoRows in the caller
	}
	run.CreatedAt = fromMillis(createdMs)
	return run, nil
}

func scanTrade(s scanner) (domain.TradeResult, error) {
	var t domain.TradeResult
	var side, reason string
	var entryMs, deadlineMs, exitMs int64
	err := s.Scan(&t.Symbol, &side, &entryMs, &t.EntryPrice, &t.Amount, &t.StopLossPrice, &t.TakeProfitPrice,
		&deadlineMs, &exitMs, &t.ExitPrice, &reason, &t.GrossPnL, &t.Fee, &t.NetPnL)
	if err != nil {
		return t, err
	}
	t.Side = domain.Side(side)
	t.ExitReason = domain.ExitReason(reason)
	t.EntryTime = fromMillis(entryMs)
	t.Deadline = fromMillis(deadlineMs)
	t.ExitTime = fromMillis(exitMs)
	return t, nil
}

var _ ports.RunRepository = (*Repository)(nil)
