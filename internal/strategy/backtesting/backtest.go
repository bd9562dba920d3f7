// Package backtesting replays a strategy over historical klines and simulates a
// single position with stop-loss, take-profit and timeout exits.
package backtesting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cryptoTrade/internal/domain"
	"cryptoTrade/internal/ports"
	"cryptoTrade/internal/risk"
	"cryptoTrade/internal/strategy/analytics"

	"github.com/shopspring/decimal"
)

// Result holds the results of a backtest
type Result struct {
	Strategy string
	Symbol   string
	Interval string
	Candles  int
	Signals  int // signals acted upon
	Trades   []domain.TradeResult
	Summary  analytics.Summary
}

// CheckData verifies that klines have strictly increasing open times and that
// there are at least required of them. The ordering error is always reported first.
func CheckData(klines []domain.Kline, required int) error {
	for i := 1; i < len(klines); i++ {
		if !klines[i].OpenTime.After(klines[i-1].OpenTime) {
			return fmt.Errorf("%w: kline %d opens at %s, not after %s", ports.ErrUnorderedData,
				i, klines[i].OpenTime.UTC().Format("2006-01-02T15:04:05Z"), klines[i-1].OpenTime.UTC().Format("2006-01-02T15:04:05Z"))
		}
	}
	if len(klines) < required {
		return fmt.Errorf("%w: have %d klines, need %d", ports.ErrInsufficientData, len(klines), required)
	}
	return nil
}

// Backtest runs strategy over klines in one deterministic pass.
//
// On each candle an open order is checked first: stop-loss and take-profit are
// evaluated against the candle's low and high and fill at the level price; when
// both are touched the stop-loss wins, as intracandle order is unknown. If neither
// is touched and the candle closes at or after the deadline the order times out at
// the close. A candle that closes an order never opens another one. Without an
// open order the strategy is asked for a signal and a new order opens at the
// candle close. An order still open after the last candle closes as end_of_data.
//
// Configuration problems and unordered data abort the run. A series shorter
// than the strategy's requirement is not an error: it yields no trades.
func Backtest(ctx context.Context, strategy ports.Strategy, klines []domain.Kline, cfg domain.BacktestConfig, logger ports.Logger) (*Result, error) {
	if logger == nil {
		logger = ports.NopLogger{}
	}
	if strategy == nil {
		return nil, fmt.Errorf("%w: strategy is required", ports.ErrConfigurationConflict)
	}
	manager, err := risk.NewRiskManager(cfg)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Strategy: strategy.Name(),
		Symbol:   cfg.Symbol,
		Interval: cfg.Interval,
		Candles:  len(klines),
		Trades:   []domain.TradeResult{},
	}
	if result.Symbol == "" && len(klines) > 0 {
		result.Symbol = klines[0].Symbol
	}

	required := strategy.RequiredDataPoints()
	if err := CheckData(klines, required); err != nil {
		if !errors.Is(err, ports.ErrInsufficientData) {
			return nil, err
		}
		logger.Warn(ctx, "Not enough kline data, no signals possible", map[string]interface{}{
			"strategy":  result.Strategy,
			"symbol":    result.Symbol,
			"available": len(klines),
			"required":  required,
			"error":     err.Error(),
		})
		result.Summary = analytics.Summarize(result.Trades)
		return result, nil
	}

	logger.Info(ctx, "Backtest started", map[string]interface{}{
		"strategy": result.Strategy,
		"symbol":   result.Symbol,
		"interval": result.Interval,
		"candles":  len(klines),
	})

	var order *domain.Order
	fee := manager.Fee()

	for i := range klines {
		current := klines[i]

		if order != nil {
			if trade, closed := evaluateExit(order, current, fee); closed {
				result.Trades = append(result.Trades, trade)
				logClose(ctx, logger, trade)
				order = nil
			}
			continue
		}

		if i+1 < required {
			continue
		}
		// Capacity is capped so the strategy cannot reach later candles.
		sig, ok := strategy.Evaluate(ctx, klines[:i+1:i+1])
		if !ok {
			continue
		}
		if !current.Close.IsPositive() {
			logger.Debug(ctx, "Signal ignored, non-positive close", map[string]interface{}{"index": i, "close": current.Close.String()})
			continue
		}
		result.Signals++
		order = manager.NewOrder(result.Symbol, sig.Side, current.Close, current.CloseTime)
		logger.Debug(ctx, "Order opened", map[string]interface{}{
			"side":       order.Side,
			"entry":      order.EntryPrice.String(),
			"stopLoss":   order.StopLossPrice.String(),
			"takeProfit": order.TakeProfitPrice.String(),
			"deadline":   order.Deadline,
		})
	}

	if order != nil {
		last := klines[len(klines)-1]
		trade := closeOrder(order, last.Close, last.CloseTime, domain.ExitEndOfData, fee)
		result.Trades = append(result.Trades, trade)
		logClose(ctx, logger, trade)
	}

	result.Summary = analytics.Summarize(result.Trades)
	logger.Info(ctx, "Backtest finished", map[string]interface{}{
		"strategy": result.Strategy,
		"symbol":   result.Symbol,
		"trades":   result.Summary.TotalTrades,
		"wins":     result.Summary.Wins,
		"losses":   result.Summary.Losses,
		"netPnL":   result.Summary.TotalNetPnL.StringFixed(4),
	})
	return result, nil
}

// evaluateExit checks order against candle k.
func evaluateExit(order *domain.Order, k domain.Kline, fee decimal.Decimal) (domain.TradeResult, bool) {
	var hitStop, hitTarget bool
	if order.Side == domain.Short {
		hitStop = k.High.GreaterThanOrEqual(order.StopLossPrice)
		hitTarget = k.Low.LessThanOrEqual(order.TakeProfitPrice)
	} else {
		hitStop = k.Low.LessThanOrEqual(order.StopLossPrice)
		hitTarget = k.High.GreaterThanOrEqual(order.TakeProfitPrice)
	}

	switch {
	case hitStop:
		return closeOrder(order, order.StopLossPrice, k.CloseTime, domain.ExitStopLoss, fee), true
	case hitTarget:
		return closeOrder(order, order.TakeProfitPrice, k.CloseTime, domain.ExitTakeProfit, fee), true
	case !k.CloseTime.Before(order.Deadline):
		return closeOrder(order, k.Close, k.CloseTime, domain.ExitTimeout, fee), true
	}
	return domain.TradeResult{}, false
}

func closeOrder(order *domain.Order, price decimal.Decimal, at time.Time, reason domain.ExitReason, fee decimal.Decimal) domain.TradeResult {
	order.Status = domain.StatusClosed
	gross := risk.GrossPnL(order.Side, order.EntryPrice, price, order.Amount)
	return domain.TradeResult{
		Symbol:          order.Symbol,
		Side:            order.Side,
		EntryPrice:      order.EntryPrice,
		EntryTime:       order.EntryTime,
		Amount:          order.Amount,
		StopLossPrice:   order.StopLossPrice,
		TakeProfitPrice: order.TakeProfitPrice,
		Deadline:        order.Deadline,
		ExitPrice:       price,
		ExitTime:        at,
		ExitReason:      reason,
		GrossPnL:        gross,
		Fee:             fee,
		NetPnL:          gross.Sub(fee),
	}
}

func logClose(ctx context.Context, logger ports.Logger, trade domain.TradeResult) {
	logger.Debug(ctx, "Order closed", map[string]interface{}{
		"side":   trade.Side,
		"reason": trade.ExitReason,
		"exit":   trade.ExitPrice.String(),
		"netPnL": trade.NetPnL.String(),
	})
}
