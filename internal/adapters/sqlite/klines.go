package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"cryptoTrade/internal/domain"
	"cryptoTrade/internal/ports"
)

// --- KlineRepository Implementation ---

// SaveKlines inserts klines in one transaction, ignoring open times already stored.
func (r *Repository) SaveKlines(ctx context.Context, symbol, interval string, klines []domain.Kline) (int, error) {
	if len(klines) == 0 {
		return 0, nil
	}
	const query = `
	INSERT OR IGNORE INTO klines (symbol, interval, open_time, close_time, open, high, low, close, volume,
	                              quote_volume, trades, taker_buy_volume, taker_buy_quote_volume)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to begin kline transaction: %v", ports.ErrQueryFailed, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to prepare kline insert: %v", ports.ErrQueryFailed, err)
	}
	defer stmt.Close()

	written := 0
	for _, k := range klines {
		res, err := stmt.ExecContext(ctx, symbol, interval, toMillis(k.OpenTime), toMillis(k.CloseTime),
			text(k.Open), text(k.High), text(k.Low), text(k.Close), text(k.Volume),
			text(k.QuoteVolume), k.TradeCount, text(k.TakerBuyVolume), text(k.TakerBuyQuoteVolume))
		if err != nil {
			return 0, fmt.Errorf("%w: failed to insert kline %s %s at %d: %v", ports.ErrQueryFailed, symbol, interval, toMillis(k.OpenTime), err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("%w: failed to get rows affected: %v", ports.ErrQueryFailed, err)
		}
		written += int(n)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: failed to commit klines: %v", ports.ErrQueryFailed, err)
	}
	r.logger.Debug(ctx, "Klines saved", map[string]interface{}{"symbol": symbol, "interval": interval, "received": len(klines), "written": written})
	return written, nil
}

// LoadKlines returns klines ordered by open time. Zero start/end means unbounded.
func (r *Repository) LoadKlines(ctx context.Context, symbol, interval string, start, end time.Time) ([]domain.Kline, error) {
	const query = `
	SELECT open_time, close_time, open, high, low, close, volume,
	       quote_volume, trades, taker_buy_volume, taker_buy_quote_volume
	FROM klines
	WHERE symbol = ? AND interval = ? AND open_time >= ? AND open_time <= ?
	ORDER BY open_time ASC`

	lo, hi := int64(0), int64(1<<62)
	if !start.IsZero() {
		lo = toMillis(start)
	}
	if !end.IsZero() {
		hi = toMillis(end)
	}

	rows, err := r.db.QueryContext(ctx, query, symbol, interval, lo, hi)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query klines for %s %s: %v", ports.ErrQueryFailed, symbol, interval, err)
	}
	defer rows.Close()

	klines := make([]domain.Kline, 0)
	for rows.Next() {
		k, err := scanKline(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to scan kline: %v", ports.ErrQueryFailed, err)
		}
		k.Symbol = symbol
		k.Interval = interval
		klines = append(klines, k)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating kline rows: %v", ports.ErrQueryFailed, err)
	}
	return klines, nil
}

// LastOpenTime returns the newest stored open time for symbol/interval.
func (r *Repository) LastOpenTime(ctx context.Context, symbol, interval string) (time.Time, bool, error) {
	const query = `SELECT MAX(open_time) FROM klines WHERE symbol = ? AND interval = ?`
	var last sql.NullInt64
	if err := r.db.QueryRowContext(ctx, query, symbol, interval).Scan(&last); err != nil {
		return time.Time{}, false, fmt.Errorf("%w: failed to query last open time for %s %s: %v", ports.ErrQueryFailed, symbol, interval, err)
	}
	if !last.Valid {
		return time.Time{}, false, nil
	}
	return fromMillis(last.Int64), true, nil
}

func scanKline(s scanner) (domain.Kline, error) {
	var k domain.Kline
	var openMs, closeMs int64
	err := s.Scan(&openMs, &closeMs, &k.Open, &k.High, &k.Low, &k.Close, &k.Volume,
		&k.QuoteVolume, &k.TradeCount, &k.TakerBuyVolume, &k.TakerBuyQuoteVolume)
	if err != nil {
		return k, err
	}
	k.OpenTime = fromMillis(openMs)
	k.CloseTime = fromMillis(closeMs)
	return k, nil
}

var _ ports.KlineRepository = (*Repository)(nil)
