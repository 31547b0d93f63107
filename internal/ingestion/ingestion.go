package ingestion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/guttosm/pricesnap/config"
	"github.com/guttosm/pricesnap/internal/domain/models"
	"github.com/guttosm/pricesnap/internal/logger"
	"github.com/guttosm/pricesnap/internal/storage"
)

// ErrNoUsableClose is the omission reason recorded when a downloaded CSV
// contains no row with a finite, positive Close.
var ErrNoUsableClose = errors.New("no usable close price")

// QuoteSource retrieves raw CSV text for a provider symbol. *Fetcher implements it.
type QuoteSource interface {
	FetchQuoteData(ctx context.Context, symbol string) (string, error)
}

// nowFunc is an indirection for the snapshot clock; tests can override this.
var nowFunc = time.Now

// BuildSnapshot processes cfg.Tickers one at a time and returns the
// snapshot plus one TickerResult per configured ticker.
//
// Behavior:
//   - Resolves each ticker's provider symbol (overrides, then suffix rule).
//   - Fetches and extracts the latest usable close.
//   - A failing ticker is omitted from the quotes and its reason kept in
//     its TickerResult; processing always continues with the next ticker.
//   - AsOf is stamped after the last ticker; Source is cfg.Source.
//
// An empty quote set is a valid outcome, so no error is returned.
func BuildSnapshot(ctx context.Context, cfg config.QuotesConfig, src QuoteSource) (models.Snapshot, []models.TickerResult) {
	resolver := NewResolver(cfg.SymbolSuffix, cfg.Overrides)
	tickers := append([]string(nil), cfg.Tickers...)

	snap := models.Snapshot{Source: cfg.Source}
	results := make([]models.TickerResult, 0, len(tickers))

	for _, ticker := range tickers {
		res := fetchTicker(ctx, resolver, src, ticker)
		if res.OK() {
			snap.Quotes.Set(ticker, models.Quote{Price: res.Price})
		}
		results = append(results, res)
	}

	snap.AsOf = models.FormatAsOf(nowFunc())
	return snap, results
}

func fetchTicker(ctx context.Context, resolver *Resolver, src QuoteSource, ticker string) models.TickerResult {
	res := models.TickerResult{Ticker: ticker, Symbol: resolver.Resolve(ticker)}
	if src == nil {
		res.Err = &FetchError{Err: ErrTransportUnavailable}
		return res
	}

	raw, err := src.FetchQuoteData(ctx, res.Symbol)
	if err != nil {
		res.Err = err
		return res
	}

	price, ok := ExtractLatestClose(raw)
	if !ok {
		res.Err = ErrNoUsableClose
		return res
	}
	res.Price = price
	return res
}

// Run performs one complete snapshot run.
//
// Parameters:
//   - ctx:   context for the outbound requests (no deadline by default).
//   - cfg:   immutable run settings.
//   - src:   where raw CSVs come from (usually a *Fetcher).
//   - sinks: destinations for the finished snapshot (file, Postgres, ...).
//
// Behavior:
//   - Builds the snapshot sequentially (see BuildSnapshot).
//   - Logs each omitted ticker at debug level.
//   - Publishes to every sink, then logs a single summary line. At the
//     default info level that line is the only output of a successful run.
//
// Returns:
//   - models.Snapshot: the snapshot that was built (even on publish failure).
//   - error: only persistence failures; ticker failures never surface here.
func Run(ctx context.Context, cfg config.QuotesConfig, src QuoteSource, sinks ...storage.SnapshotWriter) (models.Snapshot, error) {
	runID := ulid.Make().String()
	start := time.Now()
	logger.L().Debug().Str("run_id", runID).Int("tickers", len(cfg.Tickers)).Str("source", cfg.Source).Msg("snapshot run start")

	snap, results := BuildSnapshot(ctx, cfg, src)

	for _, r := range results {
		if r.OK() {
			continue
		}
		logger.L().Debug().Str("run_id", runID).Str("ticker", r.Ticker).Str("symbol", r.Symbol).Err(r.Err).Msg("ticker omitted")
	}

	if err := Publish(snap, sinks...); err != nil {
		logger.L().Error().Str("run_id", runID).Dur("elapsed", time.Since(start)).Err(err).Msg("snapshot publish failed")
		return snap, fmt.Errorf("publish snapshot: %w", err)
	}

	logger.L().Info().
		Str("run_id", runID).
		Str("as_of", snap.AsOf).
		Strs("resolved", snap.Quotes.Tickers()).
		Dur("elapsed", time.Since(start)).
		Msg("snapshot updated")
	return snap, nil
}
