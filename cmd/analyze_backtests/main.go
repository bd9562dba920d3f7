package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"cryptoTrade/internal/app"
	"cryptoTrade/internal/domain"
	"cryptoTrade/internal/strategy/analytics"
	"cryptoTrade/internal/utils"
)

func main() {
	var (
		dir    string
		prefix string
		detail bool
	)
	rootCmd := &cobra.Command{
		Use:          "analyze_backtests [files...]",
		Short:        "Compare trade CSV files exported by backtest_runner",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			files := args
			if len(files) == 0 {
				var err error
				files, err = findBacktestFiles(dir, prefix)
				if err != nil {
					return fmt.Errorf("error finding backtest files: %w", err)
				}
			}
			if len(files) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No backtest files found. Run backtest_runner with --export first.")
				return nil
			}
			return analyze(cmd.OutOrStdout(), cmd.ErrOrStderr(), files, detail)
		},
	}
	rootCmd.Flags().StringVarP(&dir, "dir", "d", "data/backtests", "Directory holding exported trade CSV files")
	rootCmd.Flags().StringVar(&prefix, "prefix", "", "Only read files whose name starts with prefix")
	rootCmd.Flags().BoolVar(&detail, "detail", false, "Print the full summary of every file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// fileSummary pairs a trade file with its computed summary.
type fileSummary struct {
	file    string
	trades  []domain.TradeResult
	summary analytics.Summary
}

func analyze(out, errOut io.Writer, files []string, detail bool) error {
	summaries := make([]fileSummary, 0, len(files))
	for _, file := range files {
		trades, err := utils.ReadTradesFromCSV(file)
		if err != nil {
			fmt.Fprintf(errOut, "Error reading trades from %s: %v\n", file, err)
			continue
		}
		summaries = append(summaries, fileSummary{file: file, trades: trades, summary: analytics.Summarize(trades)})
	}

	// Create a tabwriter for formatted output
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', tabwriter.AlignRight|tabwriter.Debug)
	fmt.Fprintln(w, "File\tTrades\tWinRate\tNetPnL\tFees\tProfitFactor\tMaxDD\t")
	for _, fs := range summaries {
		s := fs.summary
		pf := "n/a"
		if s.ProfitFactor.Valid {
			pf = s.ProfitFactor.Decimal.StringFixed(2)
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\t%s\t\n",
			filepath.Base(fs.file),
			s.TotalTrades,
			s.WinRate.StringFixed(2),
			s.TotalNetPnL.StringFixed(2),
			s.TotalFees.StringFixed(2),
			pf,
			s.MaxDrawdown.StringFixed(2),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out, "\n## Exit Reason Analysis")
	for _, fs := range summaries {
		analyzeExitReasons(out, fs)
	}

	if detail {
		for _, fs := range summaries {
			fmt.Fprintln(out)
			if err := app.WriteSummary(out, filepath.Base(fs.file), fs.summary); err != nil {
				return err
			}
		}
	}
	return nil
}

// findBacktestFiles finds all trade CSV files in dir whose name starts with prefix, sorted by name.
func findBacktestFiles(dir, prefix string) ([]string, error) {
	var files []string

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), prefix) && strings.HasSuffix(entry.Name(), ".csv") {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// analyzeExitReasons prints count, total and average net P&L per exit reason.
func analyzeExitReasons(out io.Writer, fs fileSummary) {
	totals := make(map[domain.ExitReason]decimal.Decimal)
	for _, t := range fs.trades {
		totals[t.ExitReason] = totals[t.ExitReason].Add(t.NetPnL)
	}

	fmt.Fprintf(out, "\nFile: %s\n", filepath.Base(fs.file))
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Exit Reason\tCount\tTotal PnL\tAvg PnL")

	// Sort reasons for consistent output
	reasons := make([]domain.ExitReason, 0, len(fs.summary.ExitReasons))
	for reason := range fs.summary.ExitReasons {
		reasons = append(reasons, reason)
	}
	sort.Slice(reasons, func(i, j int) bool { return reasons[i] < reasons[j] })

	for _, reason := range reasons {
		count := fs.summary.ExitReasons[reason]
		total := totals[reason]
		avg := total.Div(decimal.NewFromInt(int64(count)))
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", reason, count, total.StringFixed(2), avg.StringFixed(2))
	}
	w.Flush()
}
