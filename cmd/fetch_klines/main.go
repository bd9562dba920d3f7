package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"cryptoTrade/config"
	"cryptoTrade/internal/adapters/binanceclient"
	"cryptoTrade/internal/adapters/logger"
	"cryptoTrade/internal/app"
	"cryptoTrade/internal/ports"
)

func main() {
	var (
		symbols   []string
		intervals []string
		since     string
		days      int
		storage   string
		dataDir   string
		dbPath    string
	)

	rootCmd := &cobra.Command{
		Use:          "fetch_klines",
		Short:        "Download Binance futures klines into local storage",
		SilenceUsage: true,
	}
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&storage, "storage", "", "Kline storage: csv or sqlite (env STORAGE)")
	flags.StringVar(&dataDir, "data-dir", "", "CSV data directory (env DATA_DIR)")
	flags.StringVar(&dbPath, "db", "", "SQLite database path (env DB_PATH)")

	// setup loads configuration, applies storage flags and builds the Binance client.
	setup := func(cmd *cobra.Command) (*config.Config, ports.Logger, *binanceclient.Client, error) {
		cfg, err := config.LoadConfig()
		if err != nil {
			return nil, nil, nil, err
		}
		if cmd.Flags().Changed("storage") {
			cfg.Storage = strings.ToLower(storage)
		}
		if cmd.Flags().Changed("data-dir") {
			cfg.DataDir = dataDir
		}
		if cmd.Flags().Changed("db") {
			cfg.DBPath = dbPath
		}
		appLogger := logger.NewStdLogger(cfg.LogLevel)
		client, err := binanceclient.New(binanceclient.Config{
			APIKey:     cfg.APIKey,
			SecretKey:  cfg.SecretKey,
			UseTestnet: cfg.IsTestnet,
			Logger:     appLogger,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		return cfg, appLogger, client, nil
	}

	fetchCmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch klines, resuming after the newest stored candle",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, appLogger, client, err := setup(cmd)
			if err != nil {
				return err
			}
			if len(symbols) == 0 {
				symbols = cfg.Symbols
			}
			if len(intervals) == 0 {
				intervals = []string{cfg.Interval}
			}
			for i, s := range symbols {
				symbols[i] = strings.ToUpper(strings.TrimSpace(s))
			}

			start := cfg.StartTime
			switch {
			case since != "":
				start, err = config.ParseTime(since)
				if err != nil {
					return fmt.Errorf("invalid --since: %w", err)
				}
			case start.IsZero():
				start = time.Now().UTC().AddDate(0, 0, -days)
			}

			store, err := app.OpenStorage(cfg, appLogger, false)
			if err != nil {
				return err
			}
			defer store.Close()

			svc, err := app.NewFetchService(client, store.Klines, appLogger)
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			results, err := svc.Fetch(ctx, symbols, intervals, start)
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "SYMBOL\tINTERVAL\tFROM\tFETCHED\tWRITTEN")
			for _, r := range results {
				from := r.From.Format(time.RFC3339)
				if r.UpToDate && r.Fetched == 0 {
					from += " (up to date)"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n", r.Symbol, r.Interval, from, r.Fetched, r.Written)
			}
			if flushErr := tw.Flush(); flushErr != nil && err == nil {
				err = flushErr
			}
			return err
		},
	}
	fetchCmd.Flags().StringSliceVar(&symbols, "symbols", nil, "Comma-separated symbols (env SYMBOLS)")
	fetchCmd.Flags().StringSliceVarP(&intervals, "intervals", "i", nil, "Comma-separated intervals (env INTERVAL)")
	fetchCmd.Flags().StringVar(&since, "since", "", "Start time when nothing is stored (default START_TIME or --days ago)")
	fetchCmd.Flags().IntVar(&days, "days", 90, "Days of history to fetch when nothing is stored and no start is given")

	symbolsCmd := &cobra.Command{
		Use:   "symbols",
		Short: "List perpetual contracts on the exchange",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, client, err := setup(cmd)
			if err != nil {
				return err
			}
			list, err := client.ListSymbols(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "SYMBOL\tSTATUS")
			for _, s := range list {
				fmt.Fprintf(tw, "%s\t%s\n", s.Symbol, s.Status)
			}
			return tw.Flush()
		},
	}

	rootCmd.AddCommand(fetchCmd, symbolsCmd)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}
