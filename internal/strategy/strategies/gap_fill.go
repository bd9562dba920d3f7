package strategies

import (
	"context"

	"cryptoTrade/internal/domain"
	"cryptoTrade/internal/ports"

	"github.com/shopspring/decimal"
)

const GapFillName = "gap_fill"

func GapFillParams() []ParamSpec {
	return []ParamSpec{decimalParam("min_gap_pct", "0.1")}
}

// GapFill trades toward the fill when the current open gaps away from the
// previous close by more than min_gap_pct percent.
type GapFill struct {
	*BaseStrategy
	minGapPct decimal.Decimal
}

func NewGapFill(p Params, logger ports.Logger) *GapFill {
	return &GapFill{
		BaseStrategy: NewBaseStrategy(GapFillName, logger),
		minGapPct:    p.Decimal("min_gap_pct"),
	}
}

func buildGapFill(p Params, logger ports.Logger) ports.Strategy { return NewGapFill(p, logger) }

func (s *GapFill) RequiredDataPoints() int {
	return 2
}

func (s *GapFill) Evaluate(ctx context.Context, history []domain.Kline) (domain.Signal, bool) {
	if len(history) < 2 {
		return noSignal()
	}
	prevClose := history[len(history)-2].Close
	open := history[len(history)-1].Open
	if prevClose.IsZero() {
		return noSignal()
	}
	gap := open.Sub(prevClose)
	gapPct := gap.Abs().Mul(hundred).Div(prevClose)
	if gapPct.LessThanOrEqual(s.minGapPct) {
		return noSignal()
	}
	meta := map[string]decimal.Decimal{"gap_pct": gapPct}
	if gap.IsPositive() {
		// Gap up, expect fill down.
		return s.signal(ctx, history, domain.Short, meta)
	}
	return s.signal(ctx, history, domain.Long, meta)
}
