package strategies

import (
	"testing"

	"cryptoTrade/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flatBars builds klines with open=high=low=close and the given volumes.
func flatBars(closes []string, volumes []string) []domain.Kline {
	out := make([]domain.Kline, len(closes))
	for i, c := range closes {
		out[i] = bar(i, c, c, c, c, volumes[i])
	}
	return out
}

func repeat(s string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s
	}
	return out
}

func TestRSIBB(t *testing.T) {
	p := with(RSIBBParams(), map[string]string{"rsi_period": "3", "bb_period": "5", "bb_std": "1.5"})
	s := NewRSIBB(p, nil)
	assert.Equal(t, 5, s.RequiredDataPoints())

	tests := []struct {
		name     string
		closes   []string
		wantOK   bool
		wantSide domain.Side
	}{
		{name: "oversold below lower band", closes: []string{"100", "101", "100", "101", "100", "101", "90"}, wantOK: true, wantSide: domain.Long},
		{name: "overbought above upper band", closes: []string{"100", "99", "100", "99", "100", "99", "110"}, wantOK: true, wantSide: domain.Short},
		{name: "range bound", closes: []string{"100", "101", "100", "101", "100", "101", "100"}, wantOK: false},
		{name: "not enough data", closes: []string{"100", "101", "90"}, wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig, ok := s.Evaluate(ctx, flatBars(tt.closes, repeat("10", len(tt.closes))))
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantSide, sig.Side)
				assert.Contains(t, sig.Meta, "rsi")
			}
		})
	}
}

func TestRSIBB_RequiredDataPointsFollowsRSI(t *testing.T) {
	s := NewRSIBB(with(RSIBBParams(), map[string]string{"rsi_period": "30"}), nil)
	assert.Equal(t, 31, s.RequiredDataPoints())
}

func TestBBSqueeze(t *testing.T) {
	p := with(BBSqueezeParams(), map[string]string{"bb_period": "5", "squeeze_lookback": "3"})
	s := NewBBSqueeze(p, nil)
	assert.Equal(t, 8, s.RequiredDataPoints())

	tight := []string{"100", "100.1", "100", "100.1", "100", "100.1", "100", "100.1"}

	tests := []struct {
		name     string
		breakout string
		volume   string
		wantOK   bool
		wantSide domain.Side
	}{
		{name: "upside breakout with volume", breakout: "105", volume: "100", wantOK: true, wantSide: domain.Long},
		{name: "downside breakout with volume", breakout: "95", volume: "100", wantOK: true, wantSide: domain.Short},
		{name: "breakout without volume", breakout: "105", volume: "12", wantOK: false},
		{name: "no expansion", breakout: "100", volume: "100", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			closes := append(append([]string{}, tight...), tt.breakout)
			vols := append(repeat("10", len(tight)), tt.volume)
			sig, ok := s.Evaluate(ctx, flatBars(closes, vols))
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantSide, sig.Side)
				assert.True(t, sig.Meta["prev_bandwidth"].LessThan(d("0.02")))
			}
		})
	}
}

func TestBBSqueeze_ZeroPriorVolume(t *testing.T) {
	p := with(BBSqueezeParams(), map[string]string{"bb_period": "5", "squeeze_lookback": "3"})
	s := NewBBSqueeze(p, nil)

	closes := []string{"100", "100.1", "100", "100.1", "100", "100.1", "100", "100.1", "105"}
	vols := append(repeat("10", 5), "0", "0", "0", "0")
	sig, ok := s.Evaluate(ctx, flatBars(closes, vols))
	require.True(t, ok)
	assert.Equal(t, domain.Long, sig.Side)
}
