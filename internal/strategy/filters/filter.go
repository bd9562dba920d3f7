// Package filters provides strategy decorators that veto signals failing a
// volatility or volume gate.
package filters

import (
	"context"
	"fmt"

	"cryptoTrade/internal/domain"
	"cryptoTrade/internal/ports"
	"cryptoTrade/internal/strategy/strategies"
)

// Definition describes a built-in filter for the registry.
type Definition struct {
	Name        string
	Description string
	Params      []strategies.ParamSpec
	Wrap        func(inner ports.Strategy, p strategies.Params, logger ports.Logger) ports.Strategy
}

// Builtins returns every built-in filter in a stable order.
func Builtins() []Definition {
	return []Definition{
		{
			Name:        RangeSpikeName,
			Description: "pass only candles whose normalized range spikes above its rolling mean",
			Params:      RangeSpikeParams(),
			Wrap: func(inner ports.Strategy, p strategies.Params, logger ports.Logger) ports.Strategy {
				return NewRangeSpike(inner, p, logger)
			},
		},
		{
			Name:        VolumeName,
			Description: "pass only candles whose volume exceeds a multiple of the rolling average",
			Params:      VolumeParams(),
			Wrap: func(inner ports.Strategy, p strategies.Params, logger ports.Logger) ports.Strategy {
				return NewVolume(inner, p, logger)
			},
		},
	}
}

// gate is the secondary test applied to history once the inner strategy signalled.
type gate func(history []domain.Kline) bool

// wrapper owns an inner strategy and forwards its signal only when the gate passes.
type wrapper struct {
	name   string
	inner  ports.Strategy
	window int
	pass   gate
	logger ports.Logger
}

func newWrapper(name string, inner ports.Strategy, window int, pass gate, logger ports.Logger) *wrapper {
	if logger == nil {
		logger = ports.NopLogger{}
	}
	return &wrapper{name: name, inner: inner, window: window, pass: pass, logger: logger}
}

// Name reports the filter applied to its inner strategy, e.g. "volume_filter(momentum)".
func (w *wrapper) Name() string {
	return fmt.Sprintf("%s(%s)", w.name, w.inner.Name())
}

func (w *wrapper) RequiredDataPoints() int {
	if n := w.inner.RequiredDataPoints(); n > w.window {
		return n
	}
	return w.window
}

func (w *wrapper) Evaluate(ctx context.Context, history []domain.Kline) (domain.Signal, bool) {
	sig, ok := w.inner.Evaluate(ctx, history)
	if !ok {
		return domain.Signal{}, false
	}
	if len(history) < w.window || !w.pass(history) {
		w.logger.Debug(ctx, "Signal filtered", map[string]interface{}{
			"filter": w.name,
			"time":   sig.Time,
			"side":   sig.Side,
		})
		return domain.Signal{}, false
	}
	return sig, true
}
