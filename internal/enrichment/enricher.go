package enrichment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"crmsynth/internal/config"
	"crmsynth/internal/dataprocessing"
	"crmsynth/internal/infrastructure"
	"crmsynth/internal/llm"
	"crmsynth/internal/sentiment"
)

// LLM task labels
const (
	TaskCapabilities = "Supplier Capabilities"
	TaskRFQ          = "RFQ Analysis"
	TaskInsights     = "Strategic Insights"
	TaskActions      = "Actionable Tasks"
)

// Enricher adds sentiment scores and model analyses to the generated tables
type Enricher struct {
	analyzer    *sentiment.Analyzer
	generator   llm.Generator
	batchSize   int
	maxLLMItems int
	tracer      trace.Tracer
	logger      *slog.Logger
}

// New creates an enricher. A nil generator, or UseLLM false, limits the
// run to sentiment scoring.
func New(analyzer *sentiment.Analyzer, generator llm.Generator, cfg config.EnrichmentConfig, logger *slog.Logger) *Enricher {
	if !cfg.UseLLM {
		generator = nil
	}
	batch := cfg.BatchSize
	if batch < 1 {
		batch = 1
	}
	return &Enricher{
		analyzer:    analyzer,
		generator:   generator,
		batchSize:   batch,
		maxLLMItems: cfg.MaxLLMItems,
		tracer:      otel.Tracer(infrastructure.InstrumentationName),
		logger:      infrastructure.WithComponent(logger, "enrichment"),
	}
}

// UsesLLM reports whether model-backed analyses run
func (e *Enricher) UsesLLM() bool {
	return e.generator != nil
}

// Result is the outcome of one enrichment run
type Result struct {
	Users        *dataprocessing.Table
	Interactions *dataprocessing.Table
	Summary      *Summary
	Insights     []Insight
	Tasks        []Task
	VaderCount   int
	LLMCalls     int
}

// Run enriches in.Users and in.Interactions in place and, with a model
// configured, derives insights and tasks from the result.
func (e *Enricher) Run(ctx context.Context, in *Input) (*Result, error) {
	ctx, span := e.tracer.Start(ctx, "enrichment.run")
	defer span.End()

	users, interactions := in.Users, in.Interactions
	users.AddColumn(ColumnVaderSentiment, "{}")
	users.AddColumn(ColumnSupplierCapability, "{}")
	interactions.AddColumn(ColumnRFQAnalysis, "{}")

	feedback := users.RowsWhere(func(i int) bool {
		return strings.TrimSpace(users.Get(i, colFeedback)) != ""
	})
	var capabilities, rfqs []int
	if e.UsesLLM() {
		capabilities = e.capLLM(users.RowsWhere(func(i int) bool {
			return users.Get(i, colUserType) == config.UserTypeSupplier &&
				strings.TrimSpace(users.Get(i, colSupplierCapabilities)) != ""
		}))
		rfqs = e.capLLM(interactions.RowsWhere(func(i int) bool {
			return interactions.Get(i, colEventName) == config.EventRFQSubmitted &&
				strings.TrimSpace(interactions.Get(i, colDetails)) != ""
		}))
	}

	e.logger.InfoContext(ctx, "starting enrichment",
		slog.Bool("llm", e.UsesLLM()),
		slog.Int("batch_size", e.batchSize),
		slog.Int("feedback", len(feedback)),
		slog.Int("capabilities", len(capabilities)),
		slog.Int("rfqs", len(rfqs)))

	res := &Result{Users: users, Interactions: interactions}

	// Round robin so every list makes progress each round
	var pFeedback, pCaps, pRFQ int
	for round := 1; pFeedback < len(feedback) || pCaps < len(capabilities) || pRFQ < len(rfqs); round++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := min(pFeedback+2*e.batchSize, len(feedback))
		for _, row := range feedback[pFeedback:end] {
			if err := e.scoreFeedback(users, row); err != nil {
				return nil, err
			}
			res.VaderCount++
		}
		pFeedback = end

		end = min(pCaps+e.batchSize, len(capabilities))
		for i, row := range capabilities[pCaps:end] {
			e.logger.InfoContext(ctx, "analyzing supplier capabilities",
				slog.String("user_id", users.Get(row, colUserID)),
				slog.Int("item", pCaps+i+1), slog.Int("of", len(capabilities)))
			out := e.analyze(ctx, TaskCapabilities, capabilitiesPrompt(users.Get(row, colSupplierCapabilities)))
			if err := users.Set(row, ColumnSupplierCapability, out); err != nil {
				return nil, err
			}
			res.LLMCalls++
		}
		pCaps = end

		end = min(pRFQ+e.batchSize, len(rfqs))
		for i, row := range rfqs[pRFQ:end] {
			e.logger.InfoContext(ctx, "analyzing RFQ",
				slog.String("interaction_id", interactions.Get(row, colInteractionID)),
				slog.Int("item", pRFQ+i+1), slog.Int("of", len(rfqs)))
			out := e.analyze(ctx, TaskRFQ, rfqPrompt(interactions.Get(row, colDetails)))
			if err := interactions.Set(row, ColumnRFQAnalysis, out); err != nil {
				return nil, err
			}
			res.LLMCalls++
		}
		pRFQ = end

		e.logger.DebugContext(ctx, "round complete",
			slog.Int("round", round),
			slog.Int("feedback_done", pFeedback),
			slog.Int("capabilities_done", pCaps),
			slog.Int("rfqs_done", pRFQ))
	}

	if e.UsesLLM() {
		if err := e.insights(ctx, in, res); err != nil {
			return nil, err
		}
	}

	span.SetAttributes(
		attribute.Int("vader_analyses", res.VaderCount),
		attribute.Int("llm_calls", res.LLMCalls),
		attribute.Int("insights", len(res.Insights)),
		attribute.Int("tasks", len(res.Tasks)))
	e.logger.InfoContext(ctx, "enrichment complete",
		slog.Int("vader_analyses", res.VaderCount),
		slog.Int("llm_calls", res.LLMCalls))
	return res, nil
}

func (e *Enricher) capLLM(rows []int) []int {
	if e.maxLLMItems > 0 && len(rows) > e.maxLLMItems {
		return rows[:e.maxLLMItems]
	}
	return rows
}

func (e *Enricher) scoreFeedback(users *dataprocessing.Table, row int) error {
	result := e.analyzer.Analyze(users.Get(row, colFeedback))
	out, err := result.JSON()
	if err != nil {
		return fmt.Errorf("failed to encode sentiment: %w", err)
	}
	return users.Set(row, ColumnVaderSentiment, out)
}

// analyze asks the model and returns its cleaned JSON, or "{}" when the
// call failed.
func (e *Enricher) analyze(ctx context.Context, task, prompt string) string {
	ctx = llm.WithTask(ctx, task)
	text, err := e.generator.Generate(ctx, prompt)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		e.logger.WarnContext(ctx, "model call gave up",
			slog.String("task", task), slog.String("error", err.Error()))
		return "{}"
	}
	return llm.CleanJSON(text)
}

func (e *Enricher) insights(ctx context.Context, in *Input, res *Result) error {
	ctx, span := e.tracer.Start(ctx, "enrichment.insights")
	defer span.End()

	summary := Summarize(res.Users, res.Interactions, in.Campaigns)
	res.Summary = &summary
	e.logger.InfoContext(ctx, "summary for insights", slog.String("summary", summary.String()))

	raw := e.analyze(ctx, TaskInsights, insightsPrompt(summary.String()))
	res.LLMCalls++
	insights, err := ParseInsights(raw)
	if err != nil {
		e.logger.ErrorContext(ctx, "failed to parse strategic insights",
			slog.String("response", raw), slog.String("error", err.Error()))
		return nil
	}
	res.Insights = insights
	if len(insights) == 0 {
		e.logger.WarnContext(ctx, "no strategic insights in response", slog.String("response", raw))
		return nil
	}

	raw = e.analyze(ctx, TaskActions, tasksPrompt(insights))
	res.LLMCalls++
	tasks, err := ParseTasks(raw)
	if err != nil {
		e.logger.ErrorContext(ctx, "failed to parse actionable tasks",
			slog.String("response", raw), slog.String("error", err.Error()))
		return nil
	}
	if len(tasks) == 0 {
		e.logger.WarnContext(ctx, "no actionable tasks in response", slog.String("response", raw))
	}
	res.Tasks = tasks
	return nil
}
