package indicators

import "github.com/shopspring/decimal"

// Bands holds the Bollinger Band values for one candle.
type Bands struct {
	Upper     decimal.Decimal
	Middle    decimal.Decimal
	Lower     decimal.Decimal
	Bandwidth decimal.Decimal // (Upper-Lower)/Middle
}

// StdDev computes the population standard deviation of the last period values.
func StdDev(values []decimal.Decimal, period int) (decimal.Decimal, bool) {
	w, ok := window(values, period)
	if !ok {
		return decimal.Zero, false
	}
	m, _ := mean(w)
	variance := decimal.Zero
	for _, v := range w {
		d := v.Sub(m)
		variance = variance.Add(d.Mul(d))
	}
	variance = variance.Div(decimal.NewFromInt(int64(period)))
	return Sqrt(variance)
}

// StdDevSeries returns the population standard deviation aligned to values.
func StdDevSeries(values []decimal.Decimal, period int) []decimal.NullDecimal {
	return series(values, func(prefix []decimal.Decimal) (decimal.Decimal, bool) {
		return StdDev(prefix, period)
	})
}

// BollingerBands computes mean ± numStd standard deviations over the last period values.
// A zero middle band has no defined bandwidth and yields no value.
func BollingerBands(values []decimal.Decimal, period int, numStd decimal.Decimal) (Bands, bool) {
	middle, ok := SMA(values, period)
	if !ok {
		return Bands{}, false
	}
	sd, ok := StdDev(values, period)
	if !ok || middle.IsZero() {
		return Bands{}, false
	}
	offset := sd.Mul(numStd)
	b := Bands{
		Upper:  middle.Add(offset),
		Middle: middle,
		Lower:  middle.Sub(offset),
	}
	b.Bandwidth = b.Upper.Sub(b.Lower).Div(middle)
	return b, true
}
