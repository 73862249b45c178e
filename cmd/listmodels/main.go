// Command listmodels prints the Gemini models that support content
// generation for the configured API key.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"crmsynth/internal/app"
	"crmsynth/internal/llm"
)

func main() {
	configFile := flag.String("config", "", "path to YAML configuration file")
	all := flag.Bool("all", false, "list every model, not only generative ones")
	flag.Parse()

	ctx, stop := app.SignalContext(context.Background())
	defer stop()

	a, err := app.New(ctx, "listmodels", *configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}
	if !a.Config.LLM.HasAPIKey() {
		app.Fatal(a, "cannot list models", errors.New("GOOGLE_API_KEY is not set"))
	}

	client, err := llm.NewGeminiClient(ctx, a.Config.LLM, a.Logger)
	if err != nil {
		app.Fatal(a, "failed to create model client", err)
	}
	models, err := client.ListModels(ctx)
	if err != nil {
		app.Fatal(a, "failed to list models", err)
	}
	if !*all {
		models = llm.FilterGenerative(models)
	}

	fmt.Printf("%d models available:\n", len(models))
	for _, m := range models {
		fmt.Printf("  %s\n", m)
	}
	if err := a.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
	}
}
