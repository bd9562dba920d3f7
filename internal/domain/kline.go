package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kline represents a single candlestick data point.
// Prices and volumes are exact decimals; a Kline is never modified after construction.
type Kline struct {
	OpenTime  time.Time // Start time of the interval
	CloseTime time.Time // End time of the interval
	Symbol    string    // Trading symbol
	Interval  string    // Kline interval (e.g., "1m", "1h")
	Open      decimal.Decimal
	High      decimal.Decimal
	Low       decimal.Decimal
	Close     decimal.Decimal
	Volume    decimal.Decimal

	// Binance extras, kept so a fetched series can be written back losslessly.
	QuoteVolume         decimal.Decimal
	TradeCount          int64
	TakerBuyVolume      decimal.Decimal
	TakerBuyQuoteVolume decimal.Decimal
}

// Body returns the absolute distance between open and close.
func (k Kline) Body() decimal.Decimal {
	return k.Close.Sub(k.Open).Abs()
}

// Range returns high minus low.
func (k Kline) Range() decimal.Decimal {
	return k.High.Sub(k.Low)
}

// IsBullish reports whether the candle closed above its open.
func (k Kline) IsBullish() bool {
	return k.Close.GreaterThan(k.Open)
}

// IsBearish reports whether the candle closed below its open.
func (k Kline) IsBearish() bool {
	return k.Close.LessThan(k.Open)
}
