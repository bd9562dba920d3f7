package indicators

import "github.com/shopspring/decimal"

// TrueRange returns the greatest of high-low, |high-prevClose| and |low-prevClose|.
func TrueRange(high, low, prevClose decimal.Decimal) decimal.Decimal {
	return decimal.Max(high.Sub(low), high.Sub(prevClose).Abs(), low.Sub(prevClose).Abs())
}

// TrueRangeSeries returns the true range aligned to the inputs. Index 0 has no
// previous close and is always invalid.
func TrueRangeSeries(highs, lows, closes []decimal.Decimal) []decimal.NullDecimal {
	n := minLen(highs, lows, closes)
	out := make([]decimal.NullDecimal, n)
	for i := 1; i < n; i++ {
		out[i] = valid(TrueRange(highs[i], lows[i], closes[i-1]))
	}
	return out
}

// ATR computes the average true range as the SMA of the last period true ranges.
// It needs period+1 bars.
func ATR(highs, lows, closes []decimal.Decimal, period int) (decimal.Decimal, bool) {
	n := minLen(highs, lows, closes)
	if period <= 0 || n < period+1 {
		return decimal.Zero, false
	}
	trs := make([]decimal.Decimal, 0, period)
	for i := n - period; i < n; i++ {
		trs = append(trs, TrueRange(highs[i], lows[i], closes[i-1]))
	}
	return mean(trs)
}

// ATRSeries returns the ATR aligned to the inputs.
func ATRSeries(highs, lows, closes []decimal.Decimal, period int) []decimal.NullDecimal {
	n := minLen(highs, lows, closes)
	out := make([]decimal.NullDecimal, n)
	for i := range out {
		if v, ok := ATR(highs[:i+1], lows[:i+1], closes[:i+1], period); ok {
			out[i] = valid(v)
		}
	}
	return out
}

func minLen(a, b, c []decimal.Decimal) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if len(c) < n {
		n = len(c)
	}
	return n
}
