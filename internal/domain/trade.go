package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a simulated position opened by the backtest engine.
// Only the engine that created it may change its Status.
type Order struct {
	Symbol          string
	Side            Side
	EntryPrice      decimal.Decimal
	EntryTime       time.Time
	Amount          decimal.Decimal // USD notional
	StopLossPrice   decimal.Decimal
	TakeProfitPrice decimal.Decimal
	Deadline        time.Time // EntryTime + timeout
	Status          OrderStatus
}

// IsOpen checks if the order status is open.
func (o *Order) IsOpen() bool {
	return o.Status == StatusOpen
}

// TradeResult is the closed form of an Order.
type TradeResult struct {
	Symbol          string
	Side            Side
	EntryPrice      decimal.Decimal
	EntryTime       time.Time
	Amount          decimal.Decimal
	StopLossPrice   decimal.Decimal
	TakeProfitPrice decimal.Decimal
	Deadline        time.Time
	ExitPrice       decimal.Decimal
	ExitTime        time.Time
	ExitReason      ExitReason
	GrossPnL        decimal.Decimal
	Fee             decimal.Decimal
	NetPnL          decimal.Decimal
}

// Duration returns how long the trade was held.
func (t TradeResult) Duration() time.Duration {
	return t.ExitTime.Sub(t.EntryTime)
}
