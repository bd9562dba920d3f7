package strategies

import (
	"context"

	"cryptoTrade/internal/domain"
	"cryptoTrade/internal/ports"

	"github.com/shopspring/decimal"
)

const InsideBarName = "inside_bar"

var two = decimal.NewFromInt(2)

// InsideBar fires when the current range lies within the previous range and the
// close sits away from the previous bar's midpoint.
type InsideBar struct {
	*BaseStrategy
}

func NewInsideBar(_ Params, logger ports.Logger) *InsideBar {
	return &InsideBar{BaseStrategy: NewBaseStrategy(InsideBarName, logger)}
}

func buildInsideBar(p Params, logger ports.Logger) ports.Strategy { return NewInsideBar(p, logger) }

func (s *InsideBar) RequiredDataPoints() int {
	return 2
}

func (s *InsideBar) Evaluate(ctx context.Context, history []domain.Kline) (domain.Signal, bool) {
	if len(history) < 2 {
		return noSignal()
	}
	prev, curr := history[len(history)-2], history[len(history)-1]
	if curr.High.GreaterThan(prev.High) || curr.Low.LessThan(prev.Low) {
		return noSignal()
	}
	mid := prev.High.Add(prev.Low).Div(two)
	meta := map[string]decimal.Decimal{"mid": mid}
	switch curr.Close.Cmp(mid) {
	case 1:
		return s.signal(ctx, history, domain.Long, meta)
	case -1:
		return s.signal(ctx, history, domain.Short, meta)
	}
	return noSignal()
}
