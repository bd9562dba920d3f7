// Package analytics reduces closed trades into summary statistics.
package analytics

import (
	"sort"
	"time"

	"cryptoTrade/internal/domain"

	"github.com/shopspring/decimal"
)

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
)

var hundred = decimal.NewFromInt(100)

// Summary holds the performance statistics of one backtest run.
type Summary struct {
	// Basic Metrics
	TotalTrades int
	Wins        int             // net > 0
	Losses      int             // net < 0
	Breakevens  int             // net == 0
	WinRate     decimal.Decimal // percent of all trades
	TotalNetPnL decimal.Decimal
	AverageNet  decimal.Decimal
	Daily       []DailyPnL

	// Advanced Metrics
	TotalFees            decimal.Decimal
	GrossProfit          decimal.Decimal // sum of winning nets
	GrossLoss            decimal.Decimal // sum of losing nets, as a positive value
	BestTrade            decimal.Decimal
	WorstTrade           decimal.Decimal
	ProfitFactor         decimal.NullDecimal // invalid when there are no losses
	MaxDrawdown          decimal.Decimal     // deepest fall of cumulative net P&L from its peak
	MaxConsecutiveWins   int
	MaxConsecutiveLosses int
	AverageTradeDuration time.Duration
	ExitReasons          map[domain.ExitReason]int
	Monthly              []MonthlyReturn
}

// DailyPnL aggregates the trades that exited on one UTC date.
type DailyPnL struct {
	Date       string // YYYY-MM-DD
	NetPnL     decimal.Decimal
	TradeCount int
}

// MonthlyReturn aggregates the trades that exited in one UTC month.
type MonthlyReturn struct {
	Month      string // YYYY-MM
	NetPnL     decimal.Decimal
	TradeCount int
}

// Summarize computes the summary of trades. The input slice is not modified;
// streak and drawdown metrics follow exit time order.
func Summarize(trades []domain.TradeResult) Summary {
	s := Summary{
		WinRate:     decimal.Zero,
		TotalNetPnL: decimal.Zero,
		AverageNet:  decimal.Zero,
		TotalFees:   decimal.Zero,
		GrossProfit: decimal.Zero,
		GrossLoss:   decimal.Zero,
		BestTrade:   decimal.Zero,
		WorstTrade:  decimal.Zero,
		MaxDrawdown: decimal.Zero,
		ExitReasons: make(map[domain.ExitReason]int),
		Daily:       []DailyPnL{},
		Monthly:     []MonthlyReturn{},
	}
	if len(trades) == 0 {
		return s
	}

	ordered := make([]domain.TradeResult, len(trades))
	copy(ordered, trades)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ExitTime.Before(ordered[j].ExitTime)
	})

	daily := make(map[string]*DailyPnL)
	monthly := make(map[string]*MonthlyReturn)
	var cumulative, peak decimal.Decimal
	var consecutiveWins, consecutiveLosses int
	var totalDuration time.Duration

	for i, trade := range ordered {
		net := trade.NetPnL
		s.TotalTrades++
		s.TotalNetPnL = s.TotalNetPnL.Add(net)
		s.TotalFees = s.TotalFees.Add(trade.Fee)
		s.ExitReasons[trade.ExitReason]++
		totalDuration += trade.Duration()

		if i == 0 || net.GreaterThan(s.BestTrade) {
			s.BestTrade = net
		}
		if i == 0 || net.LessThan(s.WorstTrade) {
			s.WorstTrade = net
		}

		switch net.Sign() {
		case 1:
			s.Wins++
			s.GrossProfit = s.GrossProfit.Add(net)
			consecutiveWins++
			consecutiveLosses = 0
		case -1:
			s.Losses++
			s.GrossLoss = s.GrossLoss.Add(net.Neg())
			consecutiveLosses++
			consecutiveWins = 0
		default:
			s.Breakevens++
			consecutiveWins, consecutiveLosses = 0, 0
		}
		if consecutiveWins > s.MaxConsecutiveWins {
			s.MaxConsecutiveWins = consecutiveWins
		}
		if consecutiveLosses > s.MaxConsecutiveLosses {
			s.MaxConsecutiveLosses = consecutiveLosses
		}

		// Update drawdown tracking
		cumulative = cumulative.Add(net)
		if cumulative.GreaterThan(peak) {
			peak = cumulative
		}
		if dd := peak.Sub(cumulative); dd.GreaterThan(s.MaxDrawdown) {
			s.MaxDrawdown = dd
		}

		exit := trade.ExitTime.UTC()
		day := exit.Format(dayLayout)
		if daily[day] == nil {
			daily[day] = &DailyPnL{Date: day, NetPnL: decimal.Zero}
		}
		daily[day].NetPnL = daily[day].NetPnL.Add(net)
		daily[day].TradeCount++

		month := exit.Format(monthLayout)
		if monthly[month] == nil {
			monthly[month] = &MonthlyReturn{Month: month, NetPnL: decimal.Zero}
		}
		monthly[month].NetPnL = monthly[month].NetPnL.Add(net)
		monthly[month].TradeCount++
	}

	total := decimal.NewFromInt(int64(s.TotalTrades))
	s.WinRate = decimal.NewFromInt(int64(s.Wins)).Mul(hundred).Div(total)
	s.AverageNet = s.TotalNetPnL.Div(total)
	s.AverageTradeDuration = totalDuration / time.Duration(s.TotalTrades)
	if s.GrossLoss.IsPositive() {
		s.ProfitFactor = decimal.NullDecimal{Decimal: s.GrossProfit.Div(s.GrossLoss), Valid: true}
	}

	for _, v := range daily {
		s.Daily = append(s.Daily, *v)
	}
	sort.Slice(s.Daily, func(i, j int) bool { return s.Daily[i].Date < s.Daily[j].Date })
	for _, v := range monthly {
		s.Monthly = append(s.Monthly, *v)
	}
	sort.Slice(s.Monthly, func(i, j int) bool { return s.Monthly[i].Month < s.Monthly[j].Month })

	return s
}
