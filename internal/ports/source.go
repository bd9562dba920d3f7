package ports

import (
	"context"
	"time"

	"cryptoTrade/internal/domain"
)

// SymbolInfo describes a tradable contract discovered on the exchange.
type SymbolInfo struct {
	Symbol string
	Status string // e.g. TRADING, SETTLING
}

// KlineSource retrieves historical market data from an exchange.
type KlineSource interface {
	// GetKlinesRange retrieves all klines for symbol/interval between start and end, paginating as needed.
	GetKlinesRange(ctx context.Context, symbol, interval string, start, end time.Time) ([]domain.Kline, error)

	// ListSymbols returns the perpetual contracts listed on the exchange, sorted by symbol.
	ListSymbols(ctx context.Context) ([]SymbolInfo, error)
}
