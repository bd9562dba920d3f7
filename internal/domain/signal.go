package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Signal is a directional trade suggestion emitted by a strategy for one candle.
type Signal struct {
	Index int       // Index of the candle in the evaluated series
	Time  time.Time // Open time of that candle
	Side  Side
	Meta  map[string]decimal.Decimal // Optional strategy-specific values (e.g. "rsi")
}
