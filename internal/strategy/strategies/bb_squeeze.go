package strategies

import (
	"context"

	"cryptoTrade/internal/domain"
	"cryptoTrade/internal/ports"
	"cryptoTrade/internal/strategy/indicators"

	"github.com/shopspring/decimal"
)

const BBSqueezeName = "bb_squeeze"

func BBSqueezeParams() []ParamSpec {
	return []ParamSpec{
		intParam("bb_period", 20),
		decimalParam("squeeze_threshold", "0.02"),
		intParam("squeeze_lookback", 10),
		decimalParam("vol_multiplier", "1.5"),
	}
}

// BBSqueeze trades the breakout when the band width expands through
// squeeze_threshold after being below it on the previous candle, confirmed by
// volume above vol_multiplier times the average of the prior squeeze_lookback
// candles. Direction follows the close relative to the middle band.
type BBSqueeze struct {
	*BaseStrategy
	bbPeriod        int
	threshold       decimal.Decimal
	squeezeLookback int
	volMultiplier   decimal.Decimal
}

func NewBBSqueeze(p Params, logger ports.Logger) *BBSqueeze {
	return &BBSqueeze{
		BaseStrategy:    NewBaseStrategy(BBSqueezeName, logger),
		bbPeriod:        p.Int("bb_period"),
		threshold:       p.Decimal("squeeze_threshold"),
		squeezeLookback: p.Int("squeeze_lookback"),
		volMultiplier:   p.Decimal("vol_multiplier"),
	}
}

func buildBBSqueeze(p Params, logger ports.Logger) ports.Strategy { return NewBBSqueeze(p, logger) }

func (s *BBSqueeze) RequiredDataPoints() int {
	return s.bbPeriod + s.squeezeLookback
}

func (s *BBSqueeze) Evaluate(ctx context.Context, history []domain.Kline) (domain.Signal, bool) {
	if len(history) < s.RequiredDataPoints() {
		return noSignal()
	}
	c := closes(history)
	now, ok := indicators.BollingerBands(c, s.bbPeriod, two)
	if !ok {
		return noSignal()
	}
	prev, ok := indicators.BollingerBands(c[:len(c)-1], s.bbPeriod, two)
	if !ok {
		return noSignal()
	}
	if prev.Bandwidth.GreaterThanOrEqual(s.threshold) || now.Bandwidth.LessThanOrEqual(s.threshold) {
		return noSignal()
	}

	v := volumes(history)
	avgVol, ok := indicators.Mean(v[len(v)-1-s.squeezeLookback : len(v)-1])
	if !ok {
		return noSignal()
	}
	// No prior volume means there is nothing to confirm against.
	current := v[len(v)-1]
	if avgVol.IsPositive() && current.LessThanOrEqual(s.volMultiplier.Mul(avgVol)) {
		return noSignal()
	}

	meta := map[string]decimal.Decimal{"bandwidth": now.Bandwidth, "prev_bandwidth": prev.Bandwidth}
	switch c[len(c)-1].Cmp(now.Middle) {
	case 1:
		return s.signal(ctx, history, domain.Long, meta)
	case -1:
		return s.signal(ctx, history, domain.Short, meta)
	}
	return noSignal()
}
