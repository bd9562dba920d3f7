package app

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"cryptoTrade/internal/domain"
	"cryptoTrade/internal/ports"
	"cryptoTrade/internal/strategy/analytics"
)

const timeLayout = "2006-01-02 15:04"

// WriteSummary prints a human-readable summary block.
func WriteSummary(w io.Writer, title string, s analytics.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "== %s ==\n", title)
	fmt.Fprintf(tw, "Trades\t%d\t(wins %d, losses %d, breakeven %d)\n", s.TotalTrades, s.Wins, s.Losses, s.Breakevens)
	fmt.Fprintf(tw, "Win rate\t%s%%\n", s.WinRate.StringFixed(2))
	fmt.Fprintf(tw, "Net P&L\t%s\t(avg %s)\n", s.TotalNetPnL.StringFixed(4), s.AverageNet.StringFixed(4))
	fmt.Fprintf(tw, "Fees\t%s\n", s.TotalFees.StringFixed(4))
	fmt.Fprintf(tw, "Best / worst\t%s / %s\n", s.BestTrade.StringFixed(4), s.WorstTrade.StringFixed(4))
	if s.ProfitFactor.Valid {
		fmt.Fprintf(tw, "Profit factor\t%s\n", s.ProfitFactor.Decimal.StringFixed(2))
	} else {
		fmt.Fprintf(tw, "Profit factor\tn/a\n")
	}
	fmt.Fprintf(tw, "Max drawdown\t%s\n", s.MaxDrawdown.StringFixed(4))
	fmt.Fprintf(tw, "Streaks\t%d wins / %d losses\n", s.MaxConsecutiveWins, s.MaxConsecutiveLosses)
	fmt.Fprintf(tw, "Avg duration\t%s\n", s.AverageTradeDuration.Round(time.Second))

	reasons := make([]string, 0, len(s.ExitReasons))
	for r := range s.ExitReasons {
		reasons = append(reasons, string(r))
	}
	sort.Strings(reasons)
	for _, r := range reasons {
		fmt.Fprintf(tw, "Exit %s\t%d\n", r, s.ExitReasons[domain.ExitReason(r)])
	}
	if len(s.Daily) > 0 {
		fmt.Fprintf(tw, "Daily\t\n")
		for _, d := range s.Daily {
			fmt.Fprintf(tw, "  %s\t%s\t%d trades\n", d.Date, d.NetPnL.StringFixed(4), d.TradeCount)
		}
	}
	return tw.Flush()
}

// WriteTrades prints one row per trade.
func WriteTrades(w io.Writer, trades []domain.TradeResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ENTRY\tSIDE\tENTRY PRICE\tEXIT\tEXIT PRICE\tREASON\tNET")
	for _, t := range trades {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.EntryTime.UTC().Format(timeLayout), t.Side, t.EntryPrice, t.ExitTime.UTC().Format(timeLayout),
			t.ExitPrice, t.ExitReason, t.NetPnL.StringFixed(4))
	}
	return tw.Flush()
}

// WriteRuns prints persisted run headers.
func WriteRuns(w io.Writer, runs []ports.RunRecord) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tSTRATEGY\tSYMBOL\tINTERVAL\tTRADES\tWINS\tLOSSES\tNET")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			r.ID, r.CreatedAt.UTC().Format(timeLayout), r.Strategy, r.Symbol, r.Interval,
			r.TotalTrades, r.Wins, r.Losses, r.TotalNetPnL.StringFixed(4))
	}
	return tw.Flush()
}
