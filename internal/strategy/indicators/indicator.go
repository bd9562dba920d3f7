// Package indicators holds pure technical indicators over decimal price series.
//
// Single-value functions return (value, ok); ok is false when the window is not
// filled, the period is not positive or a division by zero would occur. Series
// functions return one decimal.NullDecimal per input element, invalid until the
// window is filled.
package indicators

import (
	"math"

	"github.com/shopspring/decimal"
)

// sqrtPrecision is the number of decimal places kept by Sqrt.
const sqrtPrecision = 16

var (
	two     = decimal.NewFromInt(2)
	hundred = decimal.NewFromInt(100)
)

func sum(values []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

func mean(values []decimal.Decimal) (decimal.Decimal, bool) {
	if len(values) == 0 {
		return decimal.Zero, false
	}
	return sum(values).Div(decimal.NewFromInt(int64(len(values)))), true
}

// Mean returns the arithmetic mean of values.
func Mean(values []decimal.Decimal) (decimal.Decimal, bool) {
	return mean(values)
}

// Sqrt returns the square root of v rounded to sqrtPrecision places.
// Newton's iteration is seeded from float64 and then refined in decimal arithmetic,
// which keeps the result identical across platforms.
func Sqrt(v decimal.Decimal) (decimal.Decimal, bool) {
	if v.IsNegative() {
		return decimal.Zero, false
	}
	if v.IsZero() {
		return decimal.Zero, true
	}
	x := decimal.NewFromFloat(math.Sqrt(v.InexactFloat64()))
	if !x.IsPositive() {
		x = v
	}
	eps := decimal.New(1, -(sqrtPrecision + 4))
	for i := 0; i < 64; i++ {
		next := x.Add(v.DivRound(x, sqrtPrecision+4)).DivRound(two, sqrtPrecision+4)
		if next.Sub(x).Abs().LessThanOrEqual(eps) {
			x = next
			break
		}
		x = next
	}
	return x.Round(sqrtPrecision), true
}

// window returns the last period values, or false if there are not enough.
func window(values []decimal.Decimal, period int) ([]decimal.Decimal, bool) {
	if period <= 0 || len(values) < period {
		return nil, false
	}
	return values[len(values)-period:], true
}

func valid(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// series evaluates fn over every growing prefix of values.
func series(values []decimal.Decimal, fn func([]decimal.Decimal) (decimal.Decimal, bool)) []decimal.NullDecimal {
	out := make([]decimal.NullDecimal, len(values))
	for i := range values {
		if v, ok := fn(values[:i+1]); ok {
			out[i] = valid(v)
		}
	}
	return out
}
