package indicators

import (
	"testing"

	"github.com/markcheno/go-talib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMA(t *testing.T) {
	closes := decs(100, 102, 101, 103, 104)

	tests := []struct {
		name     string
		period   int
		expected float64
		ok       bool
	}{
		{name: "sufficient data", period: 3, expected: 102.666667, ok: true}, // (101 + 103 + 104) / 3
		{name: "full window", period: 5, expected: 102, ok: true},
		{name: "insufficient data", period: 6, ok: false},
		{name: "zero period", period: 0, ok: false},
		{name: "negative period", period: -1, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := SMA(closes, tt.period)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assertDecimal(t, tt.expected, v, 1e-6)
			}
		})
	}
}

func TestEMA(t *testing.T) {
	closes := decs(100, 102, 101, 103, 104)

	v, ok := EMA(closes, 3)
	require.True(t, ok)
	assert.True(t, v.Equal(decs(103)[0]), "got %s", v)

	_, ok = EMA(closes, 6)
	assert.False(t, ok)
}

func TestSMASeries_Alignment(t *testing.T) {
	closes := decs(1, 2, 3, 4, 5)
	out := SMASeries(closes, 3)
	require.Len(t, out, 5)
	assert.False(t, out[0].Valid)
	assert.False(t, out[1].Valid)
	for i := 2; i < 5; i++ {
		require.True(t, out[i].Valid)
		assertDecimal(t, float64(i), out[i].Decimal, 1e-12)
	}
}

func TestMovingAverages_MatchTalib(t *testing.T) {
	raw := sampleCloses(120)
	closes := decs(raw...)

	for _, period := range []int{3, 10, 20} {
		sma := talib.Sma(raw, period)
		ema := talib.Ema(raw, period)
		smaSeries := SMASeries(closes, period)
		emaSeries := EMASeries(closes, period)

		for i := period - 1; i < len(raw); i++ {
			require.True(t, smaSeries[i].Valid)
			require.True(t, emaSeries[i].Valid)
			assertDecimal(t, sma[i], smaSeries[i].Decimal, 1e-6, "sma period=%d i=%d", period, i)
			assertDecimal(t, ema[i], emaSeries[i].Decimal, 1e-6, "ema period=%d i=%d", period, i)

			single, ok := SMA(closes[:i+1], period)
			require.True(t, ok)
			assert.True(t, single.Equal(smaSeries[i].Decimal), "series and single value diverge at %d", i)
		}
	}
}
