package filters

import (
	"cryptoTrade/internal/domain"
	"cryptoTrade/internal/ports"
	"cryptoTrade/internal/strategy/indicators"
	"cryptoTrade/internal/strategy/strategies"

	"github.com/shopspring/decimal"
)

const RangeSpikeName = "range_spike_filter"

func RangeSpikeParams() []strategies.ParamSpec {
	return []strategies.ParamSpec{
		{Name: "window", Default: decimal.NewFromInt(48), Integer: true, Positive: true},
		{Name: "threshold", Default: decimal.RequireFromString("5.85"), Positive: true},
	}
}

// NewRangeSpike wraps inner with the range spike gate:
//
//	range_ratio = (high - low) / open
//	range_spike = range_ratio / mean(range_ratio over the last window candles)
//
// The signal passes when range_spike >= threshold.
func NewRangeSpike(inner ports.Strategy, p strategies.Params, logger ports.Logger) ports.Strategy {
	window := p.Int("window")
	threshold := p.Decimal("threshold")
	return newWrapper(RangeSpikeName, inner, window, func(history []domain.Kline) bool {
		spike, ok := RangeSpike(history, window)
		return ok && spike.GreaterThanOrEqual(threshold)
	}, logger)
}

// RangeSpike computes the range spike of the last candle. A zero open in the
// window or a zero rolling mean yields no value.
func RangeSpike(history []domain.Kline, window int) (decimal.Decimal, bool) {
	if window <= 0 || len(history) < window {
		return decimal.Zero, false
	}
	ratios := make([]decimal.Decimal, 0, window)
	for _, k := range history[len(history)-window:] {
		if k.Open.IsZero() {
			return decimal.Zero, false
		}
		ratios = append(ratios, k.Range().Div(k.Open))
	}
	avg, ok := indicators.Mean(ratios)
	if !ok || avg.IsZero() {
		return decimal.Zero, false
	}
	return ratios[len(ratios)-1].Div(avg), true
}
