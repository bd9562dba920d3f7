package strategies

import (
	"testing"

	"cryptoTrade/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMomentum(t *testing.T) {
	tests := []struct {
		name     string
		closes   []string
		lookback string
		wantOK   bool
		wantSide domain.Side
	}{
		{name: "two up moves", closes: []string{"100", "101", "102"}, lookback: "2", wantOK: true, wantSide: domain.Long},
		{name: "two down moves", closes: []string{"102", "101", "100"}, lookback: "2", wantOK: true, wantSide: domain.Short},
		{name: "mixed moves", closes: []string{"100", "101", "100.5"}, lookback: "2", wantOK: false},
		{name: "move too small", closes: []string{"100", "100.05", "101"}, lookback: "2", wantOK: false},
		{name: "not enough candles", closes: []string{"100", "101"}, lookback: "2", wantOK: false},
		{name: "default lookback needs four candles", closes: []string{"100", "101", "102", "103"}, lookback: "3", wantOK: true, wantSide: domain.Long},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewMomentum(with(MomentumParams(), map[string]string{"lookback": tt.lookback}), nil)
			history := closesSeries(tt.closes...)
			sig, ok := s.Evaluate(ctx, history)
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantSide, sig.Side)
				assert.Equal(t, len(history)-1, sig.Index)
				assert.Equal(t, history[len(history)-1].OpenTime, sig.Time)
			}
		})
	}
}

func TestMomentum_RequiredDataPoints(t *testing.T) {
	s := NewMomentum(defaults(MomentumParams()), nil)
	assert.Equal(t, 4, s.RequiredDataPoints())
}

func TestMeanReversion(t *testing.T) {
	p := with(MeanReversionParams(), map[string]string{"lookback": "4", "multiplier": "2"})
	s := NewMeanReversion(p, nil)

	calm := domainBars{
		{"100", "101", "99", "100.5"},
		{"100.5", "101", "100", "100"},
		{"100", "101", "99.5", "100.5"},
	}

	t.Run("big bullish candle fades short", func(t *testing.T) {
		history := append(calm.klines(), bar(3, "100.5", "106", "100.5", "105", "10"))
		sig, ok := s.Evaluate(ctx, history)
		require.True(t, ok)
		assert.Equal(t, domain.Short, sig.Side)
		assert.Contains(t, sig.Meta, "avg_body")
	})

	t.Run("big bearish candle fades long", func(t *testing.T) {
		history := append(calm.klines(), bar(3, "100.5", "100.5", "95", "96", "10"))
		sig, ok := s.Evaluate(ctx, history)
		require.True(t, ok)
		assert.Equal(t, domain.Long, sig.Side)
	})

	t.Run("ordinary candle", func(t *testing.T) {
		history := append(calm.klines(), bar(3, "100.5", "101", "100", "100", "10"))
		_, ok := s.Evaluate(ctx, history)
		assert.False(t, ok)
	})

	t.Run("all doji", func(t *testing.T) {
		history := closesSeries("100", "100", "100", "100")
		_, ok := s.Evaluate(ctx, history)
		assert.False(t, ok)
	})
}

func TestWickRejection(t *testing.T) {
	s := NewWickRejection(defaults(WickRejectionParams()), nil)

	tests := []struct {
		name     string
		k        domain.Kline
		wantOK   bool
		wantSide domain.Side
	}{
		{name: "long lower wick", k: bar(0, "100", "101.2", "95", "101", "10"), wantOK: true, wantSide: domain.Long},
		{name: "long upper wick", k: bar(0, "101", "106", "99.8", "100", "10"), wantOK: true, wantSide: domain.Short},
		{name: "small wicks", k: bar(0, "100", "102", "99", "101.5", "10"), wantOK: false},
		{name: "zero body", k: bar(0, "100", "105", "95", "100", "10"), wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig, ok := s.Evaluate(ctx, []domain.Kline{tt.k})
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantSide, sig.Side)
			}
		})
	}
}

func TestInsideBar(t *testing.T) {
	s := NewInsideBar(nil, nil)
	mother := bar(0, "100", "110", "90", "105", "10")

	tests := []struct {
		name     string
		k        domain.Kline
		wantOK   bool
		wantSide domain.Side
	}{
		{name: "close above mid", k: bar(1, "101", "108", "95", "104", "10"), wantOK: true, wantSide: domain.Long},
		{name: "close below mid", k: bar(1, "101", "108", "92", "96", "10"), wantOK: true, wantSide: domain.Short},
		{name: "close at mid", k: bar(1, "101", "108", "92", "100", "10"), wantOK: false},
		{name: "breaks high", k: bar(1, "101", "111", "95", "104", "10"), wantOK: false},
		{name: "breaks low", k: bar(1, "101", "108", "89", "104", "10"), wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig, ok := s.Evaluate(ctx, []domain.Kline{mother, tt.k})
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantSide, sig.Side)
			}
		})
	}

	_, ok := s.Evaluate(ctx, []domain.Kline{mother})
	assert.False(t, ok)
}

func TestGapFill(t *testing.T) {
	s := NewGapFill(defaults(GapFillParams()), nil)
	prev := bar(0, "99", "100.5", "98.5", "100", "10")

	tests := []struct {
		name     string
		open     string
		wantOK   bool
		wantSide domain.Side
	}{
		{name: "gap up fills down", open: "100.5", wantOK: true, wantSide: domain.Short},
		{name: "gap down fills up", open: "99.5", wantOK: true, wantSide: domain.Long},
		{name: "gap too small", open: "100.05", wantOK: false},
		{name: "exactly at threshold", open: "100.1", wantOK: false},
		{name: "no gap", open: "100", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			curr := bar(1, tt.open, "101", "99", tt.open, "10")
			sig, ok := s.Evaluate(ctx, []domain.Kline{prev, curr})
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantSide, sig.Side)
				assert.Contains(t, sig.Meta, "gap_pct")
			}
		})
	}
}

func TestConsecutiveReversal(t *testing.T) {
	s := NewConsecutiveReversal(with(ConsecutiveReversalParams(), map[string]string{"lookback": "3"}), nil)

	sig, ok := s.Evaluate(ctx, closesSeries("100", "101", "102", "103"))
	require.True(t, ok)
	assert.Equal(t, domain.Short, sig.Side)

	sig, ok = s.Evaluate(ctx, closesSeries("103", "102", "101", "100"))
	require.True(t, ok)
	assert.Equal(t, domain.Long, sig.Side)

	_, ok = s.Evaluate(ctx, closesSeries("100", "101", "100", "101"))
	assert.False(t, ok)

	_, ok = s.Evaluate(ctx, closesSeries("100", "101"))
	assert.False(t, ok)
}

// domainBar is a compact open/high/low/close row.
type domainBar [4]string

type domainBars []domainBar

func (b domainBars) klines() []domain.Kline {
	out := make([]domain.Kline, len(b))
	for i, r := range b {
		out[i] = bar(i, r[0], r[1], r[2], r[3], "10")
	}
	return out
}
