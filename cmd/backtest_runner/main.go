package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"cryptoTrade/config"
	"cryptoTrade/internal/adapters/logger"
	"cryptoTrade/internal/app"
	"cryptoTrade/internal/ports"
	"cryptoTrade/internal/strategy"
	"cryptoTrade/internal/utils"
)

// options holds flag values; flags left unset fall back to the environment configuration.
type options struct {
	symbols      []string
	interval     string
	strategy     string
	params       []string
	filters      []string
	filterParams []string
	amount       string
	stopLoss     string
	takeProfit   string
	timeout      int
	fee          string
	storage      string
	dataDir      string
	dbPath       string
	maxParallel  int
	logLevel     string
	save         bool
	exportDir    string
	showTrades   bool
}

func main() {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:   "backtest_runner",
		Short: "Replay trading strategies over stored klines",
		Long: `backtest_runner replays a strategy, optionally wrapped in signal filters,
over klines stored by fetch_klines and reports per-symbol performance.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBacktest(cmd, opts)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringSliceVar(&opts.symbols, "symbols", nil, "Comma-separated symbols (env SYMBOLS)")
	flags.StringVarP(&opts.interval, "interval", "i", "", "Kline interval (env INTERVAL)")
	flags.StringVarP(&opts.strategy, "strategy", "s", "", "Strategy name (env STRATEGY)")
	flags.StringArrayVarP(&opts.params, "param", "p", nil, "Strategy parameter override key=value (repeatable)")
	flags.StringArrayVarP(&opts.filters, "filter", "f", nil, "Filter to apply, innermost first (repeatable; env FILTERS)")
	flags.StringArrayVar(&opts.filterParams, "filter-param", nil, "Filter parameter override filter.key=value (repeatable)")
	flags.StringVar(&opts.amount, "amount", "", "USD notional per trade (env AMOUNT_USD)")
	flags.StringVar(&opts.stopLoss, "stop-loss", "", "Stop-loss percent (env STOP_LOSS_PCT)")
	flags.StringVar(&opts.takeProfit, "take-profit", "", "Take-profit percent (env TAKE_PROFIT_PCT)")
	flags.IntVar(&opts.timeout, "timeout", 0, "Timeout in minutes (env TIMEOUT_MINUTES)")
	flags.StringVar(&opts.fee, "fee", "", "Round-trip fee percent (env FEE_PCT)")
	flags.String("start", "", "First open time, RFC3339/YYYY-MM-DD/epoch ms (env START_TIME)")
	flags.String("end", "", "Last open time (env END_TIME)")
	flags.StringVar(&opts.storage, "storage", "", "Kline storage: csv or sqlite (env STORAGE)")
	flags.StringVar(&opts.dataDir, "data-dir", "", "CSV data directory (env DATA_DIR)")
	flags.StringVar(&opts.dbPath, "db", "", "SQLite database path (env DB_PATH)")
	flags.IntVar(&opts.maxParallel, "parallel", 0, "Symbols backtested concurrently (env MAX_PARALLEL)")
	flags.StringVar(&opts.logLevel, "log-level", "", "DEBUG, INFO, WARN or ERROR (env LOG_LEVEL)")

	rootCmd.Flags().BoolVar(&opts.save, "save", false, "Persist runs in the SQLite database")
	rootCmd.Flags().StringVar(&opts.exportDir, "export", "", "Write each run's trades to <dir>/<strategy>_<symbol>_<interval>.csv")
	rootCmd.Flags().BoolVar(&opts.showTrades, "trades", false, "Print every trade")

	rootCmd.AddCommand(strategiesCmd())
	rootCmd.AddCommand(runsCmd(opts))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the environment and applies any flags the user set.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	changed := cmd.Flags().Changed

	if changed("symbols") {
		cfg.Symbols = make([]string, 0, len(opts.symbols))
		for _, s := range opts.symbols {
			if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
				cfg.Symbols = append(cfg.Symbols, s)
			}
		}
	}
	if changed("interval") {
		cfg.Interval = opts.interval
	}
	if changed("strategy") {
		cfg.Strategy = opts.strategy
	}
	if changed("filter") {
		cfg.Filters = opts.filters
	}
	if changed("storage") {
		cfg.Storage = strings.ToLower(opts.storage)
	}
	if changed("data-dir") {
		cfg.DataDir = opts.dataDir
	}
	if changed("db") {
		cfg.DBPath = opts.dbPath
	}
	if changed("timeout") {
		cfg.TimeoutMinutes = opts.timeout
	}
	if changed("parallel") {
		cfg.MaxParallel = opts.maxParallel
	}
	if changed("log-level") {
		cfg.LogLevel = logger.ParseLevel(opts.logLevel)
	}

	decimals := []struct {
		flag  string
		value string
		dst   *decimal.Decimal
	}{
		{"amount", opts.amount, &cfg.Amount},
		{"stop-loss", opts.stopLoss, &cfg.StopLossPct},
		{"take-profit", opts.takeProfit, &cfg.TakeProfitPct},
		{"fee", opts.fee, &cfg.FeePct},
	}
	for _, d := range decimals {
		if !changed(d.flag) {
			continue
		}
		v, err := decimal.NewFromString(strings.TrimSpace(d.value))
		if err != nil {
			return nil, fmt.Errorf("invalid --%s %q: %w", d.flag, d.value, err)
		}
		*d.dst = v
	}

	for flag, dst := range map[string]*time.Time{"start": &cfg.StartTime, "end": &cfg.EndTime} {
		if !changed(flag) {
			continue
		}
		value, _ := cmd.Flags().GetString(flag)
		t, err := config.ParseTime(value)
		if err != nil {
			return nil, fmt.Errorf("invalid --%s: %w", flag, err)
		}
		*dst = t
	}
	if !cfg.StartTime.IsZero() && !cfg.EndTime.IsZero() && cfg.EndTime.Before(cfg.StartTime) {
		return nil, fmt.Errorf("--end must not be before --start")
	}
	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runBacktest(cmd *cobra.Command, opts *options) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	appLogger := logger.NewStdLogger(cfg.LogLevel)
	ctx, cancel := signalContext()
	defer cancel()

	params, err := strategyParams(opts.params)
	if err != nil {
		return err
	}
	filters, err := filterSpecs(cfg.Filters, opts.filterParams)
	if err != nil {
		return err
	}

	store, err := app.OpenStorage(cfg, appLogger, opts.save)
	if err != nil {
		return err
	}
	defer store.Close()

	svc, err := app.NewBacktestService(app.BacktestServiceConfig{
		Klines:      store.Klines,
		Runs:        store.Runs,
		Registry:    strategy.NewRegistry(appLogger),
		Logger:      appLogger,
		MaxParallel: cfg.MaxParallel,
	})
	if err != nil {
		return err
	}

	backtestCfg := cfg.BacktestConfig("")
	backtestCfg.StrategyParams = params
	backtestCfg.Filters = filters
	reports, err := svc.RunAll(ctx, cfg.Symbols, app.BacktestRequest{
		Strategy: cfg.Strategy,
		Config:   backtestCfg,
		Start:    cfg.StartTime,
		End:      cfg.EndTime,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, r := range reports {
		res := r.Result
		title := fmt.Sprintf("%s %s %s (%d candles)", res.Strategy, res.Symbol, res.Interval, res.Candles)
		if r.RunID != "" {
			title += " run " + r.RunID
		}
		if err := app.WriteSummary(out, title, res.Summary); err != nil {
			return err
		}
		if opts.showTrades {
			if err := app.WriteTrades(out, res.Trades); err != nil {
				return err
			}
		}
		fmt.Fprintln(out)

		if opts.exportDir != "" {
			name := fmt.Sprintf("%s_%s_%s.csv", exportName(res.Strategy), res.Symbol, res.Interval)
			path := filepath.Join(opts.exportDir, name)
			if err := utils.WriteTradesToCSV(res.Trades, path); err != nil {
				return fmt.Errorf("failed to export trades: %w", err)
			}
			fmt.Fprintf(out, "Trades written to %s\n", path)
		}
	}
	return nil
}

// exportName makes a filter-wrapped strategy name safe for a filename.
func exportName(name string) string {
	return strings.NewReplacer("(", "-", ")", "", ",", "-").Replace(name)
}

func strategiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "List built-in strategies and filters with their parameters",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := strategy.NewRegistry(nil)
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			section := func(title string, names []string) error {
				fmt.Fprintf(tw, "%s\t\t\n", title)
				for _, name := range names {
					specs, err := registry.Params(name)
					if err != nil {
						return err
					}
					params := make([]string, 0, len(specs))
					for _, p := range specs {
						params = append(params, fmt.Sprintf("%s=%s", p.Name, p.Default))
					}
					fmt.Fprintf(tw, "  %s\t%s\t%s\n", name, strings.Join(params, " "), registry.Describe(name))
				}
				return nil
			}
			if err := section("STRATEGIES", registry.Names()); err != nil {
				return err
			}
			if err := section("FILTERS", registry.FilterNames()); err != nil {
				return err
			}
			return tw.Flush()
		},
	}
}

func runsCmd(opts *options) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "runs [id]",
		Short: "List saved runs, or show one run's trades",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			appLogger := logger.NewStdLogger(cfg.LogLevel)
			store, err := app.OpenStorage(cfg, appLogger, true)
			if err != nil {
				return err
			}
			defer store.Close()

			svc, err := app.NewBacktestService(app.BacktestServiceConfig{
				Klines:   store.Klines,
				Runs:     store.Runs,
				Registry: strategy.NewRegistry(appLogger),
				Logger:   appLogger,
			})
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				runs, err := svc.Runs(ctx, limit)
				if err != nil {
					return err
				}
				return app.WriteRuns(out, runs)
			}
			run, err := svc.FindRun(ctx, args[0])
			if err != nil {
				return err
			}
			if err := app.WriteRuns(out, []ports.RunRecord{*run}); err != nil {
				return err
			}
			fmt.Fprintln(out)
			return app.WriteTrades(out, run.Trades)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to list (0 for all)")
	return cmd
}
