package strategies

import (
	"context"

	"cryptoTrade/internal/domain"
	"cryptoTrade/internal/ports"
	"cryptoTrade/internal/strategy/indicators"

	"github.com/shopspring/decimal"
)

const MeanReversionName = "mean_reversion"

// MeanReversionParams declares the mean reversion parameters.
func MeanReversionParams() []ParamSpec {
	return []ParamSpec{
		intParam("lookback", 20),
		decimalParam("multiplier", "2.5"),
	}
}

// MeanReversion fades an outsized candle: when the current body exceeds multiplier
// times the average body of the last lookback candles (current included) it trades
// against the candle's direction.
type MeanReversion struct {
	*BaseStrategy
	lookback   int
	multiplier decimal.Decimal
}

func NewMeanReversion(p Params, logger ports.Logger) *MeanReversion {
	return &MeanReversion{
		BaseStrategy: NewBaseStrategy(MeanReversionName, logger),
		lookback:     p.Int("lookback"),
		multiplier:   p.Decimal("multiplier"),
	}
}

func buildMeanReversion(p Params, logger ports.Logger) ports.Strategy {
	return NewMeanReversion(p, logger)
}

func (s *MeanReversion) RequiredDataPoints() int {
	return s.lookback
}

func (s *MeanReversion) Evaluate(ctx context.Context, history []domain.Kline) (domain.Signal, bool) {
	if len(history) < s.lookback {
		return noSignal()
	}
	window := history[len(history)-s.lookback:]
	bodies := make([]decimal.Decimal, len(window))
	for i, k := range window {
		bodies[i] = k.Body()
	}
	avg, ok := indicators.Mean(bodies)
	if !ok || avg.IsZero() {
		return noSignal()
	}
	current := history[len(history)-1]
	if current.Body().LessThanOrEqual(s.multiplier.Mul(avg)) {
		return noSignal()
	}
	meta := map[string]decimal.Decimal{"body": current.Body(), "avg_body": avg}
	switch {
	case current.IsBullish():
		return s.signal(ctx, history, domain.Short, meta)
	case current.IsBearish():
		return s.signal(ctx, history, domain.Long, meta)
	}
	return noSignal()
}
