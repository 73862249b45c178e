// Command enrich scores user feedback sentiment and, with a Gemini API
// key, analyses supplier capabilities, RFQs and overall strategy.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"crmsynth/internal/app"
	"crmsynth/internal/operations"
)

func main() {
	configFile := flag.String("config", "", "path to YAML configuration file")
	batch := flag.Int("batch", 0, "items per list per round (overrides configuration)")
	maxLLM := flag.Int("max-llm", -1, "cap on model analyses per list, 0 for no cap (overrides configuration)")
	noLLM := flag.Bool("no-llm", false, "only score sentiment")
	xlsx := flag.Bool("xlsx", false, "also write the Excel workbook")
	sqlite := flag.Bool("sqlite", false, "also write the SQLite database")
	flag.Parse()

	ctx, stop := app.SignalContext(context.Background())
	defer stop()

	a, err := app.New(ctx, "enrich", *configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}

	enr := &a.Config.Enrichment
	if *batch > 0 {
		enr.BatchSize = *batch
	}
	if *maxLLM >= 0 {
		enr.MaxLLMItems = *maxLLM
	}
	if *noLLM {
		enr.UseLLM = false
	}

	env := a.Environment()
	generator, err := operations.NewModelGenerator(ctx, env)
	if err != nil {
		app.Fatal(a, "failed to create model client", err)
	}
	if generator == nil {
		fmt.Println("LLM analyses disabled, scoring sentiment only")
	}

	step := operations.NewEnrichStep(env, generator)
	if err := step.Validate(nil); err != nil {
		app.Fatal(a, "missing input", err)
	}

	res, err := step.Run(ctx)
	if err != nil {
		app.Fatal(a, "enrichment failed", err)
	}

	fmt.Printf("Sentiment analyses: %d\n", res.VaderCount)
	fmt.Printf("Model calls:        %d\n", res.LLMCalls)
	fmt.Printf("Strategic insights: %d\n", len(res.Insights))
	fmt.Printf("Actionable tasks:   %d\n", len(res.Tasks))
	fmt.Printf("Wrote %s and %s\n", a.Paths.UsersEnrichedCSV, a.Paths.InteractionsEnrichedCSV)

	if err := operations.Export(ctx, env, operations.Sinks{XLSX: *xlsx, SQLite: *sqlite}, res.Datasets()); err != nil {
		app.Fatal(a, "export failed", err)
	}
	if err := a.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
	}
}
