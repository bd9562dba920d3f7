package strategies

import (
	"context"

	"cryptoTrade/internal/domain"
	"cryptoTrade/internal/ports"

	"github.com/shopspring/decimal"
)

const WickRejectionName = "wick_rejection"

func WickRejectionParams() []ParamSpec {
	return []ParamSpec{decimalParam("multiplier", "2.0")}
}

// WickRejection trades away from a wick that is longer than multiplier times the
// body and longer than the opposite wick. A long lower wick means lows were
// rejected (long); a long upper wick means highs were rejected (short).
type WickRejection struct {
	*BaseStrategy
	multiplier decimal.Decimal
}

func NewWickRejection(p Params, logger ports.Logger) *WickRejection {
	return &WickRejection{
		BaseStrategy: NewBaseStrategy(WickRejectionName, logger),
		multiplier:   p.Decimal("multiplier"),
	}
}

func buildWickRejection(p Params, logger ports.Logger) ports.Strategy {
	return NewWickRejection(p, logger)
}

func (s *WickRejection) RequiredDataPoints() int {
	return 1
}

func (s *WickRejection) Evaluate(ctx context.Context, history []domain.Kline) (domain.Signal, bool) {
	if len(history) == 0 {
		return noSignal()
	}
	k := history[len(history)-1]
	body := k.Body()
	if body.IsZero() {
		return noSignal()
	}
	upper := k.High.Sub(decimal.Max(k.Open, k.Close))
	lower := decimal.Min(k.Open, k.Close).Sub(k.Low)
	limit := s.multiplier.Mul(body)

	if lower.GreaterThan(limit) && lower.GreaterThan(upper) {
		return s.signal(ctx, history, domain.Long, map[string]decimal.Decimal{"wick": lower, "body": body})
	}
	if upper.GreaterThan(limit) && upper.GreaterThan(lower) {
		return s.signal(ctx, history, domain.Short, map[string]decimal.Decimal{"wick": upper, "body": body})
	}
	return noSignal()
}
