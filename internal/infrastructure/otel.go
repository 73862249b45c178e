package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"crmsynth/internal/config"
)

// InstrumentationName is the tracer and meter name used by every component.
const InstrumentationName = "crmsynth"

// Telemetry holds the OpenTelemetry providers for one tool run.
// With telemetry disabled the tracer and meter are no-ops.
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Registry       *prometheus.Registry
	Tracer         trace.Tracer
	Meter          metric.Meter
	Metrics        *Metrics

	traceFile   *os.File
	metricsFile string
	logger      *slog.Logger
}

// InitializeTelemetry sets up tracing to a JSON lines file and metrics on a
// private Prometheus registry. Empty file names fall back to paths.
func InitializeTelemetry(ctx context.Context, cfg config.TelemetryConfig, paths *config.Paths, tool string, logger *slog.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = GetLogger()
	}

	t := &Telemetry{logger: logger}

	if !cfg.Enabled {
		t.Tracer = tracenoop.NewTracerProvider().Tracer(InstrumentationName)
		t.Meter = metricnoop.NewMeterProvider().Meter(InstrumentationName)
		m, err := NewMetrics(t.Meter)
		if err != nil {
			return nil, err
		}
		t.Metrics = m
		return t, nil
	}

	logger.InfoContext(ctx, "Initializing OpenTelemetry",
		slog.String("service", cfg.ServiceName),
		slog.String("tool", tool))

	res, err := createResource(cfg.ServiceName, tool)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	traceFile := cfg.TraceFile
	metricsFile := cfg.MetricsFile
	if paths != nil {
		if traceFile == "" {
			traceFile = paths.TraceFile
		}
		if metricsFile == "" {
			metricsFile = paths.MetricsFile
		}
	}

	if err := t.initializeTracing(res, traceFile); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	if err := t.initializeMetrics(res, metricsFile); err != nil {
		_ = t.Shutdown(ctx)
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	return t, nil
}

// createResource creates the OpenTelemetry resource
func createResource(serviceName, tool string) (*resource.Resource, error) {
	hostname, _ := os.Hostname()
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(config.AppVersion),
		attribute.String("crmsynth.tool", tool),
		attribute.String("service.instance.id", fmt.Sprintf("%s-%d", hostname, time.Now().Unix())),
	), nil
}

func (t *Telemetry) initializeTracing(res *resource.Resource, traceFile string) error {
	opts := []stdouttrace.Option{}
	if traceFile != "" {
		if err := os.MkdirAll(filepath.Dir(traceFile), 0755); err != nil {
			return fmt.Errorf("failed to create trace directory: %w", err)
		}
		f, err := os.OpenFile(traceFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to open trace file: %w", err)
		}
		t.traceFile = f
		opts = append(opts, stdouttrace.WithWriter(f))
	}

	exporter, err := stdouttrace.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	t.TracerProvider = tp
	t.Tracer = tp.Tracer(InstrumentationName, trace.WithInstrumentationVersion(config.AppVersion))
	return nil
}

func (t *Telemetry) initializeMetrics(res *resource.Resource, metricsFile string) error {
	registry := prometheus.NewRegistry()

	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(mp)

	t.Registry = registry
	t.MeterProvider = mp
	t.Meter = mp.Meter(InstrumentationName, metric.WithInstrumentationVersion(config.AppVersion))
	t.metricsFile = metricsFile

	m, err := NewMetrics(t.Meter)
	if err != nil {
		return err
	}
	t.Metrics = m
	return nil
}

// WriteMetrics writes the current registry in Prometheus text format.
func (t *Telemetry) WriteMetrics() error {
	if t.Registry == nil || t.metricsFile == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(t.metricsFile), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	return prometheus.WriteToTextfile(t.metricsFile, t.Registry)
}

// Shutdown flushes spans, writes the metrics textfile and closes providers.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error

	if t.TracerProvider != nil {
		if err := t.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}

	if err := t.WriteMetrics(); err != nil {
		errs = append(errs, fmt.Errorf("metrics textfile: %w", err))
	}

	if t.MeterProvider != nil {
		if err := t.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	if t.traceFile != nil {
		if err := t.traceFile.Close(); err != nil {
			errs = append(errs, fmt.Errorf("trace file close: %w", err))
		}
		t.traceFile = nil
	}

	if len(errs) > 0 {
		return fmt.Errorf("opentelemetry shutdown errors: %v", errs)
	}

	if t.TracerProvider != nil {
		t.logger.InfoContext(ctx, "OpenTelemetry shutdown complete")
	}
	return nil
}

// Metrics are the counters shared by the tools. All methods are nil-safe.
type Metrics struct {
	MarketFetches metric.Int64Counter
	LLMCalls      metric.Int64Counter
	LLMRetries    metric.Int64Counter
	LLMFailures   metric.Int64Counter
	RowsWritten   metric.Int64Counter
	StepDuration  metric.Float64Histogram
}

// NewMetrics creates the tool counters on meter
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	marketFetches, err := meter.Int64Counter(
		"market_fetches_total",
		metric.WithDescription("Price history requests by symbol and outcome"),
	)
	if err != nil {
		return nil, err
	}

	llmCalls, err := meter.Int64Counter(
		"llm_calls_total",
		metric.WithDescription("Generative model calls by task"),
	)
	if err != nil {
		return nil, err
	}

	llmRetries, err := meter.Int64Counter(
		"llm_retries_total",
		metric.WithDescription("Generative model call retries"),
	)
	if err != nil {
		return nil, err
	}

	llmFailures, err := meter.Int64Counter(
		"llm_failures_total",
		metric.WithDescription("Generative model calls that exhausted retries"),
	)
	if err != nil {
		return nil, err
	}

	rowsWritten, err := meter.Int64Counter(
		"rows_written_total",
		metric.WithDescription("Rows written per output file"),
	)
	if err != nil {
		return nil, err
	}

	stepDuration, err := meter.Float64Histogram(
		"step_duration_seconds",
		metric.WithDescription("Pipeline step duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		MarketFetches: marketFetches,
		LLMCalls:      llmCalls,
		LLMRetries:    llmRetries,
		LLMFailures:   llmFailures,
		RowsWritten:   rowsWritten,
		StepDuration:  stepDuration,
	}, nil
}

func statusAttr(success bool) attribute.KeyValue {
	if success {
		return attribute.String("status", "success")
	}
	return attribute.String("status", "failure")
}

// RecordMarketFetch counts one price history request
func (m *Metrics) RecordMarketFetch(ctx context.Context, symbol string, success bool) {
	if m == nil {
		return
	}
	m.MarketFetches.Add(ctx, 1, metric.WithAttributes(
		attribute.String("symbol", symbol), statusAttr(success)))
}

// RecordLLMCall counts one generate attempt for task
func (m *Metrics) RecordLLMCall(ctx context.Context, task string) {
	if m == nil {
		return
	}
	m.LLMCalls.Add(ctx, 1, metric.WithAttributes(attribute.String("task", task)))
}

// RecordLLMRetry counts one retry for task
func (m *Metrics) RecordLLMRetry(ctx context.Context, task string, rateLimited bool) {
	if m == nil {
		return
	}
	m.LLMRetries.Add(ctx, 1, metric.WithAttributes(
		attribute.String("task", task), attribute.Bool("rate_limited", rateLimited)))
}

// RecordLLMFailure counts one call that gave up for task
func (m *Metrics) RecordLLMFailure(ctx context.Context, task string) {
	if m == nil {
		return
	}
	m.LLMFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("task", task)))
}

// RecordRowsWritten counts rows written to file
func (m *Metrics) RecordRowsWritten(ctx context.Context, file string, rows int) {
	if m == nil {
		return
	}
	m.RowsWritten.Add(ctx, int64(rows), metric.WithAttributes(
		attribute.String("file", filepath.Base(file))))
}

// RecordStepDuration records how long a pipeline step ran
func (m *Metrics) RecordStepDuration(ctx context.Context, step string, d time.Duration, success bool) {
	if m == nil {
		return
	}
	m.StepDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("step", step), statusAttr(success)))
}

// RecordError records an error on the current span
func RecordError(ctx context.Context, err error, options ...trace.EventOption) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() || err == nil {
		return
	}

	span.RecordError(err, options...)
	span.SetStatus(codes.Error, err.Error())
}

// AddSpanEvent adds an event to the current span with structured attributes
func AddSpanEvent(ctx context.Context, name string, attributes map[string]interface{}) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(toAttributes(attributes)...))
}

// SetSpanAttributes sets attributes on the current span
func SetSpanAttributes(ctx context.Context, attributes map[string]interface{}) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.SetAttributes(toAttributes(attributes)...)
}

func toAttributes(attributes map[string]interface{}) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(attributes))
	for k, v := range attributes {
		switch val := v.(type) {
		case string:
			attrs = append(attrs, attribute.String(k, val))
		case int:
			attrs = append(attrs, attribute.Int(k, val))
		case int64:
			attrs = append(attrs, attribute.Int64(k, val))
		case float64:
			attrs = append(attrs, attribute.Float64(k, val))
		case bool:
			attrs = append(attrs, attribute.Bool(k, val))
		default:
			attrs = append(attrs, attribute.String(k, fmt.Sprintf("%v", val)))
		}
	}
	return attrs
}
