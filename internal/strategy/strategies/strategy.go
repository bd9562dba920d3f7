// Package strategies contains the built-in signal generators.
package strategies

import (
	"context"

	"cryptoTrade/internal/domain"
	"cryptoTrade/internal/ports"

	"github.com/shopspring/decimal"
)

// Definition describes a built-in strategy for the registry.
type Definition struct {
	Name        string
	Description string
	Params      []ParamSpec
	Build       func(p Params, logger ports.Logger) ports.Strategy
}

// Builtins returns every built-in strategy in a stable order.
func Builtins() []Definition {
	return []Definition{
		{Name: MomentumName, Description: "trend continuation after consecutive same-direction moves", Params: MomentumParams(), Build: buildMomentum},
		{Name: MeanReversionName, Description: "fade a candle whose body dwarfs the recent average", Params: MeanReversionParams(), Build: buildMeanReversion},
		{Name: WickRejectionName, Description: "trade away from a dominant rejection wick", Params: WickRejectionParams(), Build: buildWickRejection},
		{Name: InsideBarName, Description: "inside bar breakout toward the close side of the mother bar", Params: nil, Build: buildInsideBar},
		{Name: GapFillName, Description: "trade toward the fill of an open-to-previous-close gap", Params: GapFillParams(), Build: buildGapFill},
		{Name: ConsecutiveReversalName, Description: "contrarian entry after a run of same-colour candles", Params: ConsecutiveReversalParams(), Build: buildConsecutiveReversal},
		{Name: RSIBBName, Description: "RSI extreme confirmed by a Bollinger Band break", Params: RSIBBParams(), Build: buildRSIBB},
		{Name: BBSqueezeName, Description: "Bollinger Band squeeze breakout with volume confirmation", Params: BBSqueezeParams(), Build: buildBBSqueeze},
	}
}

// BaseStrategy provides common functionality for strategies
type BaseStrategy struct {
	name   string
	logger ports.Logger
}

// NewBaseStrategy creates a new base strategy instance
func NewBaseStrategy(name string, logger ports.Logger) *BaseStrategy {
	if logger == nil {
		logger = ports.NopLogger{}
	}
	return &BaseStrategy{
		name:   name,
		logger: logger,
	}
}

// Name returns the canonical strategy name.
func (b *BaseStrategy) Name() string {
	return b.name
}

// signal builds a signal for the last candle of history and logs it at debug level.
func (b *BaseStrategy) signal(ctx context.Context, history []domain.Kline, side domain.Side, meta map[string]decimal.Decimal) (domain.Signal, bool) {
	current := history[len(history)-1]
	b.logger.Debug(ctx, "Signal generated", map[string]interface{}{
		"strategy": b.name,
		"side":     side,
		"time":     current.OpenTime,
		"close":    current.Close.String(),
	})
	return domain.Signal{
		Index: len(history) - 1,
		Time:  current.OpenTime,
		Side:  side,
		Meta:  meta,
	}, true
}

func noSignal() (domain.Signal, bool) {
	return domain.Signal{}, false
}

func closes(klines []domain.Kline) []decimal.Decimal {
	out := make([]decimal.Decimal, len(klines))
	for i, k := range klines {
		out[i] = k.Close
	}
	return out
}

func volumes(klines []domain.Kline) []decimal.Decimal {
	out := make([]decimal.Decimal, len(klines))
	for i, k := range klines {
		out[i] = k.Volume
	}
	return out
}
