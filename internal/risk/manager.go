package risk

import (
	"fmt"
	"strings"
	"time"

	"cryptoTrade/internal/domain"
	"cryptoTrade/internal/ports"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// RiskManager derives order levels, deadlines and fees from a validated backtest config.
type RiskManager struct {
	amount        decimal.Decimal
	stopLossPct   decimal.Decimal
	takeProfitPct decimal.Decimal
	timeout       time.Duration
	feePct        decimal.Decimal
}

// NewRiskManager validates cfg and creates a risk manager instance.
func NewRiskManager(cfg domain.BacktestConfig) (*RiskManager, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return &RiskManager{
		amount:        cfg.Amount,
		stopLossPct:   cfg.StopLossPct,
		takeProfitPct: cfg.TakeProfitPct,
		timeout:       time.Duration(cfg.TimeoutMinutes) * time.Minute,
		feePct:        cfg.FeePct,
	}, nil
}

// ValidateConfig checks that the trade settings describe levels on the correct
// side of the entry for both directions. Every violation is reported at once.
func ValidateConfig(cfg domain.BacktestConfig) error {
	var problems []string
	if !cfg.Amount.IsPositive() {
		problems = append(problems, fmt.Sprintf("amount must be positive (got %s)", cfg.Amount))
	}
	if !cfg.StopLossPct.IsPositive() || cfg.StopLossPct.GreaterThanOrEqual(hundred) {
		problems = append(problems, fmt.Sprintf("stop loss must be within (0, 100) percent (got %s)", cfg.StopLossPct))
	}
	if !cfg.TakeProfitPct.IsPositive() || cfg.TakeProfitPct.GreaterThanOrEqual(hundred) {
		problems = append(problems, fmt.Sprintf("take profit must be within (0, 100) percent (got %s)", cfg.TakeProfitPct))
	}
	if cfg.TimeoutMinutes <= 0 {
		problems = append(problems, fmt.Sprintf("timeout must be positive (got %d minutes)", cfg.TimeoutMinutes))
	}
	if cfg.FeePct.IsNegative() {
		problems = append(problems, fmt.Sprintf("fee must not be negative (got %s)", cfg.FeePct))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ports.ErrConfigurationConflict, strings.Join(problems, "; "))
	}
	return nil
}

// Levels computes the stop-loss and take-profit prices for an entry.
// Long: stop below, target above. Short: the mirror image.
func Levels(entry decimal.Decimal, side domain.Side, stopLossPct, takeProfitPct decimal.Decimal) (stop, target decimal.Decimal) {
	sl := entry.Mul(stopLossPct).Div(hundred)
	tp := entry.Mul(takeProfitPct).Div(hundred)
	if side == domain.Short {
		return entry.Add(sl), entry.Sub(tp)
	}
	return entry.Sub(sl), entry.Add(tp)
}

// NewOrder opens an order for side at entry price and time.
func (r *RiskManager) NewOrder(symbol string, side domain.Side, entry decimal.Decimal, at time.Time) *domain.Order {
	stop, target := Levels(entry, side, r.stopLossPct, r.takeProfitPct)
	return &domain.Order{
		Symbol:          symbol,
		Side:            side,
		EntryPrice:      entry,
		EntryTime:       at,
		Amount:          r.amount,
		StopLossPrice:   stop,
		TakeProfitPrice: target,
		Deadline:        at.Add(r.timeout),
		Status:          domain.StatusOpen,
	}
}

// Fee returns the round-trip fee charged on the configured notional.
func (r *RiskManager) Fee() decimal.Decimal {
	return r.amount.Mul(r.feePct).Div(hundred)
}

// GrossPnL returns (exit - entry) * sign * amount / entry.
func GrossPnL(side domain.Side, entry, exit, amount decimal.Decimal) decimal.Decimal {
	return exit.Sub(entry).Mul(decimal.NewFromInt(side.Sign())).Mul(amount).Div(entry)
}
