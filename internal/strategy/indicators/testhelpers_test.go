package indicators

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func decs(vals ...float64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(vals))
	for i, v := range vals {
		out[i] = decimal.NewFromFloat(v)
	}
	return out
}

// sampleCloses is a deterministic, non-monotonic price path.
func sampleCloses(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + 5*math.Sin(float64(i)/3) + float64(i%7)*0.37 - float64(i%4)*0.21
	}
	return out
}

func assertDecimal(t *testing.T, expected float64, actual decimal.Decimal, delta float64, msgAndArgs ...interface{}) {
	t.Helper()
	assert.InDelta(t, expected, actual.InexactFloat64(), delta, msgAndArgs...)
}
