package operations

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"crmsynth/internal/config"
	"crmsynth/internal/dataprocessing"
	"crmsynth/internal/enrichment"
	apperrors "crmsynth/internal/errors"
	"crmsynth/internal/exporter"
	"crmsynth/internal/infrastructure"
	"crmsynth/internal/llm"
	"crmsynth/internal/market"
	"crmsynth/internal/mockdata"
	"crmsynth/internal/sentiment"
)

// DefaultRegistry registers the market, generate and enrich steps.
// generator may be nil, in which case enrichment only scores sentiment.
func DefaultRegistry(env *Environment, generator llm.Generator) (*Registry, error) {
	registry := NewRegistry()
	for _, step := range []Step{
		NewMarketStep(env),
		NewGenerateStep(env),
		NewEnrichStep(env, generator),
	} {
		if err := registry.Register(step); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// MarketStep downloads commodity prices and writes them in long format
type MarketStep struct {
	BaseStep
	env         *Environment
	source      market.HistorySource
	instruments []market.Instrument
	from, to    time.Time
}

// NewMarketStep creates the market step for the default instruments
func NewMarketStep(env *Environment) *MarketStep {
	return &MarketStep{
		BaseStep:    NewBaseStep(StepIDMarket, StepNameMarket),
		env:         env,
		instruments: market.DefaultInstruments(),
	}
}

// WithSource replaces the Yahoo Finance client
func (s *MarketStep) WithSource(source market.HistorySource) *MarketStep {
	s.source = source
	return s
}

// WithWindow sets the download window. Zero values fall back to now and
// now minus the configured number of years.
func (s *MarketStep) WithWindow(from, to time.Time) *MarketStep {
	s.from, s.to = from, to
	return s
}

// Window returns the effective download window
func (s *MarketStep) Window() (time.Time, time.Time) {
	to := s.to
	if to.IsZero() {
		to = s.env.now()
	}
	from := s.from
	if from.IsZero() {
		from = to.AddDate(-s.env.Config.Market.Years, 0, 0)
	}
	return from, to
}

// MarketResult is the outcome of the market step
type MarketResult struct {
	From, To time.Time
	Fetched  int
	Failures []market.FetchFailure
	Fill     dataprocessing.FillStatistics
	Rows     []market.PriceRow
	Written  bool // false when nothing was fetched
}

// Datasets returns the price table, or nothing when no data was fetched
func (r *MarketResult) Datasets() []exporter.Dataset {
	if len(r.Rows) == 0 {
		return nil
	}
	return []exporter.Dataset{market.Dataset(r.Rows)}
}

// Execute implements Step
func (s *MarketStep) Execute(ctx context.Context, state *OperationState) error {
	res, err := s.Run(ctx)
	if err != nil {
		return err
	}
	state.SetContext(ContextKeyMarket, res)
	return nil
}

// Validate requires a sane window
func (s *MarketStep) Validate(*OperationState) error {
	from, to := s.Window()
	if !from.Before(to) {
		return apperrors.NewValidationError(fmt.Sprintf("start %s is not before end %s",
			from.Format(config.DateLayout), to.Format(config.DateLayout)))
	}
	return nil
}

// Run fetches every instrument, aligns and fills the prices, and writes
// the CSV. Instruments that fail are logged and left out; when none
// succeed no file is written.
func (s *MarketStep) Run(ctx context.Context) (*MarketResult, error) {
	cfg := s.env.Config.Market
	logger := s.env.logger("market")

	source := s.source
	if source == nil {
		source = market.NewClient(cfg, s.env.Logger).WithMetrics(s.env.Metrics)
	}

	from, to := s.Window()
	res := &MarketResult{From: from, To: to}

	logger.InfoContext(ctx, "downloading commodity prices",
		slog.String("from", from.Format(config.DateLayout)),
		slog.String("to", to.Format(config.DateLayout)),
		slog.Int("instruments", len(s.instruments)))

	series, failures := market.NewFetcher(source, cfg.Concurrency, s.env.Logger).
		FetchAll(ctx, s.instruments, from, to)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res.Fetched = len(series)
	res.Failures = failures
	infrastructure.SetSpanAttributes(ctx, map[string]interface{}{
		"market.instruments": len(s.instruments),
		"market.fetched":     res.Fetched,
		"market.failures":    len(failures),
	})

	if len(series) == 0 {
		logger.WarnContext(ctx, "no commodity data", slog.Int("failures", len(failures)))
		return res, nil
	}

	frame := market.Align(series)
	res.Fill = frame.Fill()
	res.Rows = frame.Melt()

	if err := s.env.csvWriter().WriteSimpleCSV(s.env.Paths.CommoditiesCSV, market.OutputHeaders, market.Records(res.Rows)); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", config.CommoditiesFile, err)
	}
	res.Written = true
	infrastructure.SetSpanAttributes(ctx, map[string]interface{}{"market.rows": len(res.Rows)})

	logger.InfoContext(ctx, "commodity prices written",
		slog.String("path", s.env.Paths.CommoditiesCSV),
		slog.Int("rows", len(res.Rows)),
		slog.Int("dates", len(frame.Dates)),
		slog.Int("instruments", res.Fetched),
		slog.Int("forward_filled", res.Fill.ForwardFilled),
		slog.Int("backward_filled", res.Fill.BackwardFilled))
	return res, nil
}

// GenerateStep writes the synthetic campaigns, users and interactions
type GenerateStep struct {
	BaseStep
	env *Environment
}

// NewGenerateStep creates the generate step
func NewGenerateStep(env *Environment) *GenerateStep {
	return &GenerateStep{
		BaseStep: NewBaseStep(StepIDGenerate, StepNameGenerate),
		env:      env,
	}
}

// GenerateResult is the outcome of the generate step
type GenerateResult struct {
	Dataset *mockdata.Dataset
	Funnel  mockdata.FunnelStats
}

// Datasets returns the three generated tables
func (r *GenerateResult) Datasets() []exporter.Dataset {
	return r.Dataset.Datasets()
}

// Execute implements Step
func (s *GenerateStep) Execute(ctx context.Context, state *OperationState) error {
	res, err := s.Run(ctx)
	if err != nil {
		return err
	}
	state.SetContext(ContextKeyGenerate, res)
	return nil
}

// Validate checks the generator options
func (s *GenerateStep) Validate(*OperationState) error {
	opts, err := mockdata.OptionsFromConfig(s.env.Config.Generator, s.env.now())
	if err != nil {
		return err
	}
	return opts.Validate()
}

// Run generates the dataset and writes its CSV files
func (s *GenerateStep) Run(ctx context.Context) (*GenerateResult, error) {
	logger := s.env.logger("mockdata")

	opts, err := mockdata.OptionsFromConfig(s.env.Config.Generator, s.env.now())
	if err != nil {
		return nil, err
	}
	gen, err := mockdata.NewGenerator(opts, s.env.Logger)
	if err != nil {
		return nil, err
	}

	dataset := gen.Generate()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := dataset.Save(s.env.csvWriter()); err != nil {
		return nil, err
	}

	funnel := mockdata.ComputeFunnelStats(dataset.Interactions)
	infrastructure.SetSpanAttributes(ctx, map[string]interface{}{
		"mockdata.campaigns":       len(dataset.Campaigns),
		"mockdata.users":           len(dataset.Users),
		"mockdata.interactions":    len(dataset.Interactions),
		"mockdata.completion_rate": funnel.CompletionRate,
	})
	logger.InfoContext(ctx, "supplier signup funnel",
		slog.Int("started", funnel.Started),
		slog.Int("completed", funnel.Completed),
		slog.Int("started_and_completed", funnel.Both),
		slog.Float64("completion_rate", funnel.CompletionRate))

	return &GenerateResult{Dataset: dataset, Funnel: funnel}, nil
}

// EnrichStep scores and analyses the generated records
type EnrichStep struct {
	BaseStep
	env       *Environment
	generator llm.Generator
}

// NewEnrichStep creates the enrich step. It depends on generate.
func NewEnrichStep(env *Environment, generator llm.Generator) *EnrichStep {
	return &EnrichStep{
		BaseStep:  NewBaseStep(StepIDEnrich, StepNameEnrich, StepIDGenerate),
		env:       env,
		generator: generator,
	}
}

// Execute implements Step
func (s *EnrichStep) Execute(ctx context.Context, state *OperationState) error {
	res, err := s.Run(ctx)
	if err != nil {
		return err
	}
	state.SetContext(ContextKeyEnrich, res)
	return nil
}

// Validate requires the generated input files
func (s *EnrichStep) Validate(*OperationState) error {
	for _, path := range []string{s.env.Paths.UsersCSV, s.env.Paths.InteractionsCSV, s.env.Paths.CampaignsCSV} {
		if _, err := os.Stat(path); err != nil {
			return apperrors.NewConfigError(fmt.Sprintf("input file %s not found, run mockdata first", path), err)
		}
	}
	return nil
}

// Run loads the generated tables, enriches them and writes the results
func (s *EnrichStep) Run(ctx context.Context) (*enrichment.Result, error) {
	in, err := enrichment.LoadInput(s.env.Paths)
	if err != nil {
		return nil, err
	}

	enricher := enrichment.New(sentiment.NewAnalyzer(), s.generator, s.env.Config.Enrichment, s.env.Logger)
	res, err := enricher.Run(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := res.Save(s.env.csvWriter()); err != nil {
		return nil, err
	}

	s.env.logger("enrichment").InfoContext(ctx, "enrichment totals",
		slog.Int("vader_analyses", res.VaderCount),
		slog.Int("llm_calls", res.LLMCalls),
		slog.Int("insights", len(res.Insights)),
		slog.Int("tasks", len(res.Tasks)))
	return res, nil
}
