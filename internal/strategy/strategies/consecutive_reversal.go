package strategies

import (
	"context"

	"cryptoTrade/internal/domain"
	"cryptoTrade/internal/ports"
)

const ConsecutiveReversalName = "consecutive_reversal"

func ConsecutiveReversalParams() []ParamSpec {
	return []ParamSpec{intParam("lookback", 4)}
}

// ConsecutiveReversal takes the contrarian side after lookback candles of the same colour.
type ConsecutiveReversal struct {
	*BaseStrategy
	lookback int
}

func NewConsecutiveReversal(p Params, logger ports.Logger) *ConsecutiveReversal {
	return &ConsecutiveReversal{
		BaseStrategy: NewBaseStrategy(ConsecutiveReversalName, logger),
		lookback:     p.Int("lookback"),
	}
}

func buildConsecutiveReversal(p Params, logger ports.Logger) ports.Strategy {
	return NewConsecutiveReversal(p, logger)
}

func (s *ConsecutiveReversal) RequiredDataPoints() int {
	return s.lookback
}

func (s *ConsecutiveReversal) Evaluate(ctx context.Context, history []domain.Kline) (domain.Signal, bool) {
	if len(history) < s.lookback {
		return noSignal()
	}
	bullish, bearish := 0, 0
	for _, k := range history[len(history)-s.lookback:] {
		if k.IsBullish() {
			bullish++
		} else if k.IsBearish() {
			bearish++
		}
	}
	switch {
	case bullish == s.lookback:
		return s.signal(ctx, history, domain.Short, nil)
	case bearish == s.lookback:
		return s.signal(ctx, history, domain.Long, nil)
	}
	return noSignal()
}
