package strategies

import (
	"context"
	"time"

	"cryptoTrade/internal/domain"

	"github.com/shopspring/decimal"
)

var (
	ctx   = context.Background()
	start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// bar builds a one-minute kline at index i.
func bar(i int, open, high, low, close, volume string) domain.Kline {
	openTime := start.Add(time.Duration(i) * time.Minute)
	return domain.Kline{
		OpenTime:  openTime,
		CloseTime: openTime.Add(time.Minute - time.Millisecond),
		Symbol:    "BTCUSDT",
		Interval:  "1m",
		Open:      d(open),
		High:      d(high),
		Low:       d(low),
		Close:     d(close),
		Volume:    d(volume),
	}
}

// closesSeries builds klines whose open equals the previous close.
func closesSeries(values ...string) []domain.Kline {
	out := make([]domain.Kline, len(values))
	prev := values[0]
	for i, c := range values {
		o := prev
		hi, lo := o, c
		if d(c).GreaterThan(d(o)) {
			hi, lo = c, o
		}
		out[i] = bar(i, o, hi, lo, c, "10")
		prev = c
	}
	return out
}

func defaults(specs []ParamSpec) Params {
	p, err := Resolve(specs, nil)
	if err != nil {
		panic(err)
	}
	return p
}

func with(specs []ParamSpec, overrides map[string]string) Params {
	raw, err := ParseParams(overrides)
	if err != nil {
		panic(err)
	}
	p, err := Resolve(specs, raw)
	if err != nil {
		panic(err)
	}
	return p
}
