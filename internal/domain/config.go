package domain

import "github.com/shopspring/decimal"

// FilterSpec names a signal filter and its parameter overrides.
type FilterSpec struct {
	Name   string
	Params map[string]decimal.Decimal
}

// BacktestConfig holds the options of a single backtest run.
// Percentages are in percent units (5 means 5%) relative to the entry price.
type BacktestConfig struct {
	Symbol         string
	Interval       string
	Amount         decimal.Decimal // USD notional per trade
	StopLossPct    decimal.Decimal
	TakeProfitPct  decimal.Decimal
	TimeoutMinutes int
	FeePct         decimal.Decimal // Charged once per round trip
	StrategyParams map[string]decimal.Decimal
	Filters        []FilterSpec
}
