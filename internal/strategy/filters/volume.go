package filters

import (
	"cryptoTrade/internal/domain"
	"cryptoTrade/internal/ports"
	"cryptoTrade/internal/strategy/indicators"
	"cryptoTrade/internal/strategy/strategies"

	"github.com/shopspring/decimal"
)

const VolumeName = "volume_filter"

func VolumeParams() []strategies.ParamSpec {
	return []strategies.ParamSpec{
		{Name: "lookback", Default: decimal.NewFromInt(20), Integer: true, Positive: true},
		{Name: "multiplier", Default: decimal.RequireFromString("1.5"), Positive: true},
	}
}

// NewVolume wraps inner so that a signal passes only when the current volume is
// above multiplier times the mean volume of the last lookback candles.
func NewVolume(inner ports.Strategy, p strategies.Params, logger ports.Logger) ports.Strategy {
	lookback := p.Int("lookback")
	multiplier := p.Decimal("multiplier")
	return newWrapper(VolumeName, inner, lookback, func(history []domain.Kline) bool {
		vols := make([]decimal.Decimal, 0, lookback)
		for _, k := range history[len(history)-lookback:] {
			vols = append(vols, k.Volume)
		}
		avg, ok := indicators.Mean(vols)
		if !ok {
			return false
		}
		return history[len(history)-1].Volume.GreaterThan(multiplier.Mul(avg))
	}, logger)
}
