package indicators

import "github.com/shopspring/decimal"

// RSI computes the Relative Strength Index using Wilder's smoothing.
// It needs period+1 values. Any window without losses, flat included, yields 100.
func RSI(values []decimal.Decimal, period int) (decimal.Decimal, bool) {
	if period <= 0 || len(values) < period+1 {
		return decimal.Zero, false
	}
	p := decimal.NewFromInt(int64(period))
	pMinus := decimal.NewFromInt(int64(period - 1))

	var avgGain, avgLoss decimal.Decimal
	for i := 1; i <= period; i++ {
		gain, loss := split(values[i].Sub(values[i-1]))
		avgGain = avgGain.Add(gain)
		avgLoss = avgLoss.Add(loss)
	}
	avgGain = avgGain.Div(p)
	avgLoss = avgLoss.Div(p)

	for i := period + 1; i < len(values); i++ {
		gain, loss := split(values[i].Sub(values[i-1]))
		avgGain = avgGain.Mul(pMinus).Add(gain).Div(p)
		avgLoss = avgLoss.Mul(pMinus).Add(loss).Div(p)
	}

	if avgLoss.IsZero() {
		return hundred, true
	}
	rs := avgGain.Div(avgLoss)
	return hundred.Sub(hundred.Div(decimal.NewFromInt(1).Add(rs))), true
}

// RSISeries returns the RSI aligned to values.
func RSISeries(values []decimal.Decimal, period int) []decimal.NullDecimal {
	return series(values, func(prefix []decimal.Decimal) (decimal.Decimal, bool) {
		return RSI(prefix, period)
	})
}

func split(delta decimal.Decimal) (gain, loss decimal.Decimal) {
	if delta.IsPositive() {
		return delta, decimal.Zero
	}
	return decimal.Zero, delta.Neg()
}
