// Command commodities downloads daily closing prices for industrial
// commodities and writes them as a long-format CSV.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"crmsynth/internal/app"
	"crmsynth/internal/config"
	"crmsynth/internal/operations"
)

func main() {
	configFile := flag.String("config", "", "path to YAML configuration file")
	years := flag.Int("years", 0, "years of history to download (overrides configuration)")
	fromFlag := flag.String("from", "", "start date YYYY-MM-DD (default: today minus -years)")
	toFlag := flag.String("to", "", "end date YYYY-MM-DD (default: today)")
	xlsx := flag.Bool("xlsx", false, "also write the Excel workbook")
	sqlite := flag.Bool("sqlite", false, "also write the SQLite database")
	flag.Parse()

	ctx, stop := app.SignalContext(context.Background())
	defer stop()

	a, err := app.New(ctx, "commodities", *configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}
	if *years > 0 {
		a.Config.Market.Years = *years
	}

	from, err := parseDate(*fromFlag)
	if err != nil {
		app.Fatal(a, "invalid -from", err)
	}
	to, err := parseDate(*toFlag)
	if err != nil {
		app.Fatal(a, "invalid -to", err)
	}

	env := a.Environment()
	step := operations.NewMarketStep(env).WithWindow(from, to)
	if err := step.Validate(nil); err != nil {
		app.Fatal(a, "invalid window", err)
	}

	start, end := step.Window()
	fmt.Printf("Downloading commodity prices from %s to %s\n",
		start.Format(config.DateLayout), end.Format(config.DateLayout))

	res, err := step.Run(ctx)
	if err != nil {
		app.Fatal(a, "download failed", err)
	}
	for _, f := range res.Failures {
		fmt.Printf("  skipped %s (%s): %v\n", f.Instrument.Name, f.Instrument.Symbol, f.Err)
	}
	if !res.Written {
		fmt.Println("no commodity data")
		_ = a.Close()
		return
	}

	fmt.Printf("Wrote %d rows for %d instruments to %s\n", len(res.Rows), res.Fetched, a.Paths.CommoditiesCSV)
	fmt.Printf("Filled %d values forward, %d backward\n", res.Fill.ForwardFilled, res.Fill.BackwardFilled)

	if err := operations.Export(ctx, env, operations.Sinks{XLSX: *xlsx, SQLite: *sqlite}, res.Datasets()); err != nil {
		app.Fatal(a, "export failed", err)
	}
	if err := a.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
	}
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(config.DateLayout, s)
}
