package market

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"crmsynth/internal/infrastructure"
)

// HistorySource is anything that can return the daily bars of a symbol
type HistorySource interface {
	History(ctx context.Context, symbol string, from, to time.Time) ([]Quote, error)
}

// Fetcher downloads several instruments concurrently
type Fetcher struct {
	source      HistorySource
	concurrency int
	logger      *slog.Logger
}

// NewFetcher creates a fetcher that runs at most concurrency downloads at once
func NewFetcher(source HistorySource, concurrency int, logger *slog.Logger) *Fetcher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Fetcher{
		source:      source,
		concurrency: concurrency,
		logger:      infrastructure.WithComponent(logger, "market_fetcher"),
	}
}

// FetchAll downloads every instrument. Series come back in input order;
// instruments that failed or returned nothing are listed in the failures
// and left out of the series.
func (f *Fetcher) FetchAll(ctx context.Context, instruments []Instrument, from, to time.Time) ([]Series, []FetchFailure) {
	results := make([]Series, len(instruments))
	errs := make([]error, len(instruments))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)

	for i, inst := range instruments {
		g.Go(func() error {
			f.logger.InfoContext(gctx, "fetching instrument",
				slog.String("name", inst.Name), slog.String("symbol", inst.Symbol))

			quotes, err := f.source.History(gctx, inst.Symbol, from, to)
			if err != nil {
				errs[i] = err
				return nil
			}
			results[i] = Series{Instrument: inst, Quotes: quotes}
			return nil
		})
	}
	_ = g.Wait()

	var series []Series
	var failures []FetchFailure
	for i, inst := range instruments {
		if errs[i] != nil {
			f.logger.WarnContext(ctx, "skipping instrument",
				slog.String("name", inst.Name),
				slog.String("symbol", inst.Symbol),
				slog.String("error", errs[i].Error()))
			failures = append(failures, FetchFailure{Instrument: inst, Err: errs[i]})
			continue
		}
		f.logger.InfoContext(ctx, "fetched instrument",
			slog.String("name", inst.Name), slog.Int("bars", len(results[i].Quotes)))
		series = append(series, results[i])
	}
	return series, failures
}
