package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guttosm/pricesnap/config"
	"github.com/guttosm/pricesnap/internal/app"
	"github.com/guttosm/pricesnap/internal/ingestion"
	"github.com/guttosm/pricesnap/internal/logger"
)

// loadConfig is an indirection for unit testing; it populates config.AppConfig.
var loadConfig = config.LoadConfig

// newRootCmd builds the pricesnap command tree.
//
// Commands:
//   - pricesnap          same as "pricesnap update".
//   - pricesnap update   fetch every configured ticker once and rewrite the snapshot.
//   - pricesnap api      serve the latest snapshot over HTTP.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pricesnap",
		Short:         "Snapshot the latest closing price of a ticker list",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			loadConfig()
			logger.Init()
		},
	}

	update := newUpdateCmd()
	root.RunE = update.RunE
	root.Flags().AddFlagSet(update.Flags())

	root.AddCommand(update, newAPICmd())
	return root
}

func newUpdateCmd() *cobra.Command {
	var (
		output  string
		tickers string
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Fetch quotes once and rewrite the snapshot file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.AppConfig
			if output != "" {
				cfg.Quotes.OutputPath = output
			}
			if tickers != "" {
				cfg.Quotes.Tickers = config.ParseTickers(tickers)
			}
			return runUpdate(cmd.Context(), cfg, newFetcher(cfg.Quotes))
		},
	}

	cmd.Flags().StringVar(&output, "output", "", "Snapshot file path (overrides QUOTES_OUTPUT)")
	cmd.Flags().StringVar(&tickers, "tickers", "", "Comma-separated tickers (overrides QUOTES_TICKERS)")
	return cmd
}

func newAPICmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "api",
		Short: "Serve the latest snapshot over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port == "" {
				port = config.AppConfig.Server.Port
			}
			logger.L().Info().Msg("starting API server")

			router, cleanup, err := app.InitializeApp()
			if err != nil {
				return fmt.Errorf("app init: %w", err)
			}

			server := startServer(router, port)
			gracefulShutdown(cmd.Context(), server, cleanup)
			return nil
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "Port for the API server (defaults to SERVER_PORT)")
	return cmd
}

// newFetcher builds the provider client from the run settings.
func newFetcher(qc config.QuotesConfig) *ingestion.Fetcher {
	return ingestion.NewFetcher(
		ingestion.WithBaseURL(qc.Endpoint),
		ingestion.WithInterval(qc.Interval),
		ingestion.WithUserAgent(qc.UserAgent),
		ingestion.WithHTTPClient(ingestion.NewHTTPClient(qc.FetchTimeout)),
	)
}

// runUpdate performs one snapshot run against src and publishes it to the
// file (and the Postgres mirror when enabled).
//
// Ticker failures are logged and never fail the run; only a sink that
// cannot be opened or written returns an error.
func runUpdate(ctx context.Context, cfg config.Config, src ingestion.QuoteSource) error {
	if ctx == nil {
		ctx = context.Background()
	}

	sinks, cleanup, err := app.InitializeSinks(cfg, cfg.Quotes.OutputPath)
	if err != nil {
		return err
	}
	defer cleanup()

	if _, err := ingestion.Run(ctx, cfg.Quotes, src, sinks...); err != nil {
		return err
	}
	return nil
}
