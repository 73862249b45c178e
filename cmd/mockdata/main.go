// Command mockdata generates synthetic marketing campaigns, users and
// interaction events for a B2B supplier marketplace.
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
	campaigns := flag.Int("campaigns", 0, "number of campaigns (overrides configuration)")
	users := flag.Int("users", 0, "number of users (overrides configuration)")
	interactions := flag.Int("interactions", 0, "target number of interactions (overrides configuration)")
	start := flag.String("start", "", "first campaign date YYYY-MM-DD (overrides configuration)")
	seed := flag.Int64("seed", 0, "random seed, 0 for a time-based seed (overrides configuration)")
	xlsx := flag.Bool("xlsx", false, "also write the Excel workbook")
	sqlite := flag.Bool("sqlite", false, "also write the SQLite database")
	flag.Parse()

	ctx, stop := app.SignalContext(context.Background())
	defer stop()

	a, err := app.New(ctx, "mockdata", *configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}

	gen := &a.Config.Generator
	if *campaigns > 0 {
		gen.NumCampaigns = *campaigns
	}
	if *users > 0 {
		gen.NumUsers = *users
	}
	if *interactions > 0 {
		gen.InteractionTarget = *interactions
	}
	if *start != "" {
		gen.StartDate = *start
	}
	if *seed != 0 {
		gen.Seed = *seed
	}

	env := a.Environment()
	step := operations.NewGenerateStep(env)
	if err := step.Validate(nil); err != nil {
		app.Fatal(a, "invalid generator options", err)
	}

	fmt.Printf("Generating %d campaigns and %d users\n", gen.NumCampaigns, gen.NumUsers)
	res, err := step.Run(ctx)
	if err != nil {
		app.Fatal(a, "generation failed", err)
	}

	fmt.Printf("Wrote %d campaigns to %s\n", len(res.Dataset.Campaigns), a.Paths.CampaignsCSV)
	fmt.Printf("Wrote %d users to %s\n", len(res.Dataset.Users), a.Paths.UsersCSV)
	fmt.Printf("Wrote %d interactions to %s\n", len(res.Dataset.Interactions), a.Paths.InteractionsCSV)

	f := res.Funnel
	fmt.Println("Supplier signup funnel:")
	fmt.Printf("  started:                %d\n", f.Started)
	fmt.Printf("  completed:              %d\n", f.Completed)
	fmt.Printf("  started and completed:  %d\n", f.Both)
	fmt.Printf("  completion rate:        %.1f%%\n", f.CompletionRate*100)

	if err := operations.Export(ctx, env, operations.Sinks{XLSX: *xlsx, SQLite: *sqlite}, res.Datasets()); err != nil {
		app.Fatal(a, "export failed", err)
	}
	if err := a.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
	}
}
