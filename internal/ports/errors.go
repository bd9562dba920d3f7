package ports

import "errors"

// Standard application-level errors.
// Adapters and the backtest core wrap these with context using %w.
var (
	// General Errors
	ErrUnknown            = errors.New("unknown error occurred")
	ErrInvalidRequest     = errors.New("invalid request parameters or format")
	ErrNotFound           = errors.New("resource not found")
	ErrTimeout            = errors.New("operation timed out")
	ErrContextCanceled    = errors.New("operation canceled via context")
	ErrConfigurationError = errors.New("invalid or missing configuration")

	// Backtest Errors
	ErrUnknownStrategy       = errors.New("unknown strategy or filter")
	ErrInvalidParameter      = errors.New("invalid strategy parameter")
	ErrInsufficientData      = errors.New("insufficient data for strategy window")
	ErrConfigurationConflict = errors.New("conflicting backtest configuration")
	ErrUnorderedData         = errors.New("kline series is not strictly increasing by open time")

	// Exchange Specific Errors
	ErrExchangeUnavailable  = errors.New("exchange API is unavailable")
	ErrConnectionFailed     = errors.New("failed to connect to the exchange")
	ErrRateLimited          = errors.New("API rate limit exceeded")
	ErrAuthenticationFailed = errors.New("exchange authentication failed (check API keys)")

	// Storage Specific Errors
	ErrDBConnection = errors.New("database connection error")
	ErrQueryFailed  = errors.New("database query failed")
	ErrStorage      = errors.New("kline storage error")
)
