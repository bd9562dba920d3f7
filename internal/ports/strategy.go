package ports

import (
	"context"

	"cryptoTrade/internal/domain"
)

// Strategy defines the interface for signal generators, including filter wrappers.
type Strategy interface {
	// Name returns the canonical name (filters report "filter(inner)").
	Name() string

	// RequiredDataPoints returns the minimum number of klines needed before a signal is possible.
	RequiredDataPoints() int

	// Evaluate inspects history, whose last element is the current kline, and returns
	// a signal for that kline if there is one. It must not retain or modify history.
	Evaluate(ctx context.Context, history []domain.Kline) (domain.Signal, bool)
}
