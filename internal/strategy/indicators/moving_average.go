package indicators

import "github.com/shopspring/decimal"

// SMA computes the simple moving average of the last period values.
func SMA(values []decimal.Decimal, period int) (decimal.Decimal, bool) {
	w, ok := window(values, period)
	if !ok {
		return decimal.Zero, false
	}
	return mean(w)
}

// EMA computes the exponential moving average over all values.
// The multiplier is 2/(period+1) and the seed is the SMA of the first period values.
func EMA(values []decimal.Decimal, period int) (decimal.Decimal, bool) {
	if period <= 0 || len(values) < period {
		return decimal.Zero, false
	}
	k := two.Div(decimal.NewFromInt(int64(period + 1)))
	ema, _ := mean(values[:period])
	for _, v := range values[period:] {
		ema = v.Sub(ema).Mul(k).Add(ema)
	}
	return ema, true
}

// SMASeries returns the SMA aligned to values.
func SMASeries(values []decimal.Decimal, period int) []decimal.NullDecimal {
	out := make([]decimal.NullDecimal, len(values))
	if period <= 0 || len(values) < period {
		return out
	}
	p := decimal.NewFromInt(int64(period))
	running := sum(values[:period])
	out[period-1] = valid(running.Div(p))
	for i := period; i < len(values); i++ {
		running = running.Add(values[i]).Sub(values[i-period])
		out[i] = valid(running.Div(p))
	}
	return out
}

// EMASeries returns the EMA aligned to values.
func EMASeries(values []decimal.Decimal, period int) []decimal.NullDecimal {
	out := make([]decimal.NullDecimal, len(values))
	if period <= 0 || len(values) < period {
		return out
	}
	k := two.Div(decimal.NewFromInt(int64(period + 1)))
	ema, _ := mean(values[:period])
	out[period-1] = valid(ema)
	for i := period; i < len(values); i++ {
		ema = values[i].Sub(ema).Mul(k).Add(ema)
		out[i] = valid(ema)
	}
	return out
}
