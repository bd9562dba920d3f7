package strategies

import (
	"context"

	"cryptoTrade/internal/domain"
	"cryptoTrade/internal/ports"

	"github.com/shopspring/decimal"
)

const MomentumName = "momentum"

// MomentumParams declares the momentum parameters.
func MomentumParams() []ParamSpec {
	return []ParamSpec{
		intParam("lookback", 3),
		nonNegativeParam("min_move_pct", "0.1"),
	}
}

// Momentum signals a continuation when the last lookback close-to-close moves
// all point the same way and each is at least min_move_pct percent.
type Momentum struct {
	*BaseStrategy
	lookback   int
	minMovePct decimal.Decimal
}

// NewMomentum creates a momentum strategy from resolved params.
func NewMomentum(p Params, logger ports.Logger) *Momentum {
	return &Momentum{
		BaseStrategy: NewBaseStrategy(MomentumName, logger),
		lookback:     p.Int("lookback"),
		minMovePct:   p.Decimal("min_move_pct"),
	}
}

func buildMomentum(p Params, logger ports.Logger) ports.Strategy { return NewMomentum(p, logger) }

// RequiredDataPoints needs one extra candle for the first move.
func (s *Momentum) RequiredDataPoints() int {
	return s.lookback + 1
}

func (s *Momentum) Evaluate(ctx context.Context, history []domain.Kline) (domain.Signal, bool) {
	if len(history) < s.RequiredDataPoints() {
		return noSignal()
	}
	recent := history[len(history)-s.lookback-1:]
	up, down := 0, 0
	for i := 1; i < len(recent); i++ {
		prev := recent[i-1].Close
		if prev.IsZero() {
			return noSignal()
		}
		move := recent[i].Close.Sub(prev)
		if move.Abs().Mul(hundred).Div(prev).LessThan(s.minMovePct) {
			return noSignal()
		}
		switch move.Sign() {
		case 1:
			up++
		case -1:
			down++
		}
	}
	switch {
	case up == s.lookback:
		return s.signal(ctx, history, domain.Long, nil)
	case down == s.lookback:
		return s.signal(ctx, history, domain.Short, nil)
	}
	return noSignal()
}

var hundred = decimal.NewFromInt(100)
