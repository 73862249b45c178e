// Command pipeline runs the market, generate and enrich steps as one
// operation with per-step timeouts and retries.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"crmsynth/internal/app"
	"crmsynth/internal/llm"
	"crmsynth/internal/operations"
)

func main() {
	configFile := flag.String("config", "", "path to YAML configuration file")
	stepID := flag.String("step", operations.StepAll, "step to run: market, generate, enrich or all")
	continueOnError := flag.Bool("continue-on-error", false, "run independent steps after a failure")
	retries := flag.Int("retries", 0, "attempts per step (overrides the default)")
	retryDelay := flag.Duration("retry-delay", 0, "delay before the first retry, doubled on each further retry")
	timeout := flag.Duration("timeout", 0, "timeout per step, covering all attempts (overrides the defaults)")
	noLLM := flag.Bool("no-llm", false, "only score sentiment in the enrich step")
	xlsx := flag.Bool("xlsx", false, "also write the Excel workbook")
	sqlite := flag.Bool("sqlite", false, "also write the SQLite database")
	flag.Parse()

	ctx, stop := app.SignalContext(context.Background())
	defer stop()

	a, err := app.New(ctx, "pipeline", *configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}
	if *noLLM {
		a.Config.Enrichment.UseLLM = false
	}

	env := a.Environment()
	var generator llm.Generator
	if *stepID == operations.StepAll || *stepID == operations.StepIDEnrich {
		generator, err = operations.NewModelGenerator(ctx, env)
		if err != nil {
			app.Fatal(a, "failed to create model client", err)
		}
	}

	registry, err := operations.DefaultRegistry(env, generator)
	if err != nil {
		app.Fatal(a, "failed to register steps", err)
	}
	if *stepID != operations.StepAll && !registry.Has(*stepID) {
		app.Fatal(a, "invalid -step", fmt.Errorf("unknown step %q, expected one of %s or %s",
			*stepID, strings.Join(registry.ListIDs(), ", "), operations.StepAll))
	}

	retry := operations.NewRetryConfig()
	if *retries > 0 {
		retry.MaxAttempts = *retries
	}
	if *retryDelay > 0 {
		retry.InitialDelay = *retryDelay
	}
	builder := operations.NewConfigBuilder().
		WithRetryConfig(retry).
		WithContinueOnError(*continueOnError)
	if *timeout > 0 {
		for _, id := range registry.ListIDs() {
			builder = builder.WithStepTimeout(id, *timeout)
		}
	}
	manager := operations.NewManager(registry, builder.Build(), a.Logger).WithMetrics(env.Metrics)

	state, runErr := manager.Execute(ctx, operations.OperationRequest{Step: *stepID})
	resp := operations.Response(state)

	fmt.Printf("Operation %s %s in %s\n", resp.ID, resp.Status, resp.Duration.Round(time.Millisecond))
	for _, s := range resp.Steps {
		line := fmt.Sprintf("  %-20s %-10s", s.Name, s.Status)
		if s.Attempts > 1 {
			line += fmt.Sprintf(" attempts=%d", s.Attempts)
		}
		if s.Message != "" {
			line += " " + s.Message
		}
		if s.Error != nil {
			line += " error: " + s.Error.Error()
		}
		fmt.Println(line)
	}
	if state.HasFailures() {
		fmt.Printf("Failed steps: %s\n", strings.Join(state.FailedSteps(), ", "))
	}

	if err := operations.Export(ctx, env, operations.Sinks{XLSX: *xlsx, SQLite: *sqlite}, operations.CollectDatasets(state)); err != nil {
		app.Fatal(a, "export failed", err)
	}
	if runErr != nil {
		app.Fatal(a, "operation failed", runErr)
	}
	if err := a.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
	}
}
