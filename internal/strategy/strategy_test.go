package strategy

import (
	"context"
	"testing"

	"cryptoTrade/internal/domain"
	"cryptoTrade/internal/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLogger implements ports.Logger for testing
type mockLogger struct {
	debugMsgs []string
}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {
	m.debugMsgs = append(m.debugMsgs, msg)
}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestRegistry_Names(t *testing.T) {
	r := NewRegistry(&mockLogger{})
	assert.Equal(t, []string{
		"bb_squeeze", "consecutive_reversal", "gap_fill", "inside_bar",
		"mean_reversion", "momentum", "rsi_bb", "wick_rejection",
	}, r.Names())
	assert.Equal(t, []string{"range_spike_filter", "volume_filter"}, r.FilterNames())
	for _, name := range append(r.Names(), r.FilterNames()...) {
		assert.NotEmpty(t, r.Describe(name), name)
	}
}

func TestRegistry_New(t *testing.T) {
	r := NewRegistry(nil)

	tests := []struct {
		name      string
		strategy  string
		overrides map[string]decimal.Decimal
		wantErr   error
		required  int
	}{
		{name: "defaults", strategy: "momentum", required: 4},
		{name: "override", strategy: "momentum", overrides: map[string]decimal.Decimal{"lookback": dec("2")}, required: 3},
		{name: "unknown strategy", strategy: "martingale", wantErr: ports.ErrUnknownStrategy},
		{name: "unknown param", strategy: "momentum", overrides: map[string]decimal.Decimal{"window": dec("2")}, wantErr: ports.ErrInvalidParameter},
		{name: "overflowing lookback", strategy: "mean_reversion", overrides: map[string]decimal.Decimal{"lookback": decimal.RequireFromString("18446744073709551615")}, wantErr: ports.ErrInvalidParameter},
		{name: "param on paramless strategy", strategy: "inside_bar", overrides: map[string]decimal.Decimal{"lookback": dec("2")}, wantErr: ports.ErrInvalidParameter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := r.New(tt.strategy, tt.overrides)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.strategy, s.Name())
			assert.Equal(t, tt.required, s.RequiredDataPoints())
		})
	}
}

func TestRegistry_Params(t *testing.T) {
	r := NewRegistry(nil)

	specs, err := r.Params("rsi_bb")
	require.NoError(t, err)
	names := make([]string, len(specs))
	for i, s := range specs {
		names[i] = s.Name
	}
	assert.Equal(t, []string{"rsi_period", "bb_period", "bb_std", "oversold", "overbought"}, names)

	specs, err = r.Params("volume_filter")
	require.NoError(t, err)
	assert.Len(t, specs, 2)

	_, err = r.Params("nope")
	assert.ErrorIs(t, err, ports.ErrUnknownStrategy)
}

func TestRegistry_Resolve(t *testing.T) {
	r := NewRegistry(nil)

	s, err := r.Resolve("momentum", nil, []domain.FilterSpec{
		{Name: "range_spike_filter"},
		{Name: "volume_filter", Params: map[string]decimal.Decimal{"lookback": dec("60")}},
	})
	require.NoError(t, err)
	assert.Equal(t, "volume_filter(range_spike_filter(momentum))", s.Name())
	assert.Equal(t, 60, s.RequiredDataPoints())

	_, err = r.Resolve("momentum", nil, []domain.FilterSpec{{Name: "atr_filter"}})
	assert.ErrorIs(t, err, ports.ErrUnknownStrategy)

	_, err = r.Resolve("momentum", nil, []domain.FilterSpec{{Name: "volume_filter", Params: map[string]decimal.Decimal{"lookback": dec("1.5")}}})
	assert.ErrorIs(t, err, ports.ErrInvalidParameter)
}
