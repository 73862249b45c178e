package operations

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"crmsynth/internal/config"
	"crmsynth/internal/exporter"
	"crmsynth/internal/infrastructure"
	"crmsynth/internal/llm"
)

// Environment carries what the data steps share
type Environment struct {
	Config  *config.Config
	Paths   *config.Paths
	Metrics *infrastructure.Metrics
	Logger  *slog.Logger
	Now     func() time.Time // time.Now when nil
}

func (e *Environment) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Environment) logger(component string) *slog.Logger {
	return infrastructure.WithComponent(e.Logger, component)
}

func (e *Environment) csvWriter() *exporter.CSVWriter {
	return exporter.NewCSVWriter(e.Paths).WithMetrics(e.Metrics)
}

// NewModelGenerator builds the rate-limited Gemini generator used by the
// enrich step. It returns nil, without error, when LLM use is disabled or
// no API key is configured.
func NewModelGenerator(ctx context.Context, env *Environment) (llm.Generator, error) {
	logger := env.logger("llm")
	if !env.Config.Enrichment.UseLLM {
		logger.Info("LLM features disabled by configuration")
		return nil, nil
	}
	if !env.Config.LLM.HasAPIKey() {
		logger.Warn("GOOGLE_API_KEY not set, LLM features disabled")
		return nil, nil
	}

	client, err := llm.NewGeminiClient(ctx, env.Config.LLM, env.Logger)
	if err != nil {
		return nil, err
	}
	logger.Info("LLM client ready", slog.String("model", client.Model()))
	return llm.NewRateLimitedGenerator(client, env.Config.LLM, env.Logger).WithMetrics(env.Metrics), nil
}

// DatasetProvider is implemented by step results that have tabular output
type DatasetProvider interface {
	Datasets() []exporter.Dataset
}

// CollectDatasets gathers the datasets of every step result in state, in
// step order.
func CollectDatasets(state *OperationState) []exporter.Dataset {
	var out []exporter.Dataset
	for _, key := range []string{ContextKeyMarket, ContextKeyGenerate, ContextKeyEnrich} {
		if v, ok := state.GetContext(key); ok {
			if p, ok := v.(DatasetProvider); ok {
				out = append(out, p.Datasets()...)
			}
		}
	}
	return out
}

// Sinks selects the optional outputs written next to the CSV files
type Sinks struct {
	XLSX   bool
	SQLite bool
}

// Export writes datasets to the workbook and database when requested.
// The workbook is rewritten with just these datasets; database tables are
// replaced one by one, so tables from other runs remain.
func Export(ctx context.Context, env *Environment, sinks Sinks, datasets []exporter.Dataset) error {
	if len(datasets) == 0 || (!sinks.XLSX && !sinks.SQLite) {
		return nil
	}
	logger := env.logger("export")

	if sinks.XLSX {
		if err := exporter.NewXLSXWriter().WriteWorkbook(env.Paths.WorkbookXLSX, datasets); err != nil {
			return fmt.Errorf("failed to write workbook: %w", err)
		}
		logger.InfoContext(ctx, "workbook written",
			slog.String("path", env.Paths.WorkbookXLSX),
			slog.Int("sheets", len(datasets)))
	}

	if sinks.SQLite {
		sink, err := exporter.OpenSQLite(ctx, env.Paths.DatabaseSQLite)
		if err != nil {
			return err
		}
		defer sink.Close()
		if err := sink.WriteAll(ctx, datasets); err != nil {
			return fmt.Errorf("failed to write database: %w", err)
		}
		logger.InfoContext(ctx, "database written",
			slog.String("path", env.Paths.DatabaseSQLite),
			slog.Int("tables", len(datasets)))
	}
	return nil
}
