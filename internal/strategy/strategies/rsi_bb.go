package strategies

import (
	"context"

	"cryptoTrade/internal/domain"
	"cryptoTrade/internal/ports"
	"cryptoTrade/internal/strategy/indicators"

	"github.com/shopspring/decimal"
)

const RSIBBName = "rsi_bb"

func RSIBBParams() []ParamSpec {
	return []ParamSpec{
		intParam("rsi_period", 14),
		intParam("bb_period", 20),
		decimalParam("bb_std", "2"),
		decimalParam("oversold", "30"),
		decimalParam("overbought", "70"),
	}
}

// RSIBB is a mean reversion strategy for volatile moments.
// Long when RSI is oversold and the close is below the lower band,
// short when RSI is overbought and the close is above the upper band.
type RSIBB struct {
	*BaseStrategy
	rsiPeriod  int
	bbPeriod   int
	bbStd      decimal.Decimal
	oversold   decimal.Decimal
	overbought decimal.Decimal
}

func NewRSIBB(p Params, logger ports.Logger) *RSIBB {
	return &RSIBB{
		BaseStrategy: NewBaseStrategy(RSIBBName, logger),
		rsiPeriod:    p.Int("rsi_period"),
		bbPeriod:     p.Int("bb_period"),
		bbStd:        p.Decimal("bb_std"),
		oversold:     p.Decimal("oversold"),
		overbought:   p.Decimal("overbought"),
	}
}

func buildRSIBB(p Params, logger ports.Logger) ports.Strategy { return NewRSIBB(p, logger) }

func (s *RSIBB) RequiredDataPoints() int {
	if s.rsiPeriod+1 > s.bbPeriod {
		return s.rsiPeriod + 1
	}
	return s.bbPeriod
}

func (s *RSIBB) Evaluate(ctx context.Context, history []domain.Kline) (domain.Signal, bool) {
	if len(history) < s.RequiredDataPoints() {
		return noSignal()
	}
	c := closes(history)
	rsi, ok := indicators.RSI(c, s.rsiPeriod)
	if !ok {
		return noSignal()
	}
	bb, ok := indicators.BollingerBands(c, s.bbPeriod, s.bbStd)
	if !ok {
		return noSignal()
	}
	current := c[len(c)-1]
	meta := map[string]decimal.Decimal{"rsi": rsi, "bb_lower": bb.Lower, "bb_upper": bb.Upper}

	if rsi.LessThan(s.oversold) && current.LessThan(bb.Lower) {
		return s.signal(ctx, history, domain.Long, meta)
	}
	if rsi.GreaterThan(s.overbought) && current.GreaterThan(bb.Upper) {
		return s.signal(ctx, history, domain.Short, meta)
	}
	return noSignal()
}
