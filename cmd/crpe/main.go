package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/erinheit451/crpe/pkg/core/benchmark"
	"github.com/erinheit451/crpe/pkg/core/config"
	"github.com/erinheit451/crpe/pkg/core/engine"
	"github.com/erinheit451/crpe/pkg/core/report"
	"github.com/erinheit451/crpe/pkg/core/snapshot"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, assuming environment variables are set.")
	}

	inPath := flag.String("in", "", "path to the input snapshot JSON document")
	outPath := flag.String("out", "", "path to write the scored snapshot JSON (stdout if empty)")
	constantsPath := flag.String("constants", "", "optional hjson file of calibration overrides")
	benchmarksPath := flag.String("benchmarks", "", "optional YAML benchmark fixture (mutually exclusive with -db)")
	useDB := flag.Bool("db", false, "look up benchmarks from DATABASE_URL instead of a fixture")
	htmlPath := flag.String("report", "", "optional path to write an HTML run report")
	flag.Parse()

	if *inPath == "" {
		fmt.Println("Error: -in is required")
		os.Exit(1)
	}

	runID := uuid.NewString()
	fmt.Printf("Campaign Risk & Priority Engine — run %s\n", runID)

	cfg := config.Default()
	if *constantsPath != "" {
		var err error
		cfg, err = config.LoadOverrides(*constantsPath, cfg)
		if err != nil {
			log.Fatalf("loading constants override: %v", err)
		}
		fmt.Printf("Loaded constants override from %s\n", *constantsPath)
	}

	lookup, err := resolveLookup(*useDB, *benchmarksPath)
	if err != nil {
		log.Fatalf("resolving benchmark lookup: %v", err)
	}

	raw, err := os.ReadFile(*inPath)
	if err != nil {
		log.Fatalf("reading input snapshot: %v", err)
	}

	rows, warnings, err := snapshot.Decode(raw)
	if err != nil {
		log.Fatalf("decoding input snapshot: %v", err)
	}
	for _, w := range warnings {
		fmt.Printf("Warning: %s\n", w.Message)
	}
	fmt.Printf("Decoded %d campaign rows\n", len(rows))

	eng := engine.New(cfg, lookup)
	enriched, runWarnings, err := eng.Transform(rows)
	if err != nil {
		log.Fatalf("scoring run aborted: %v", err)
	}
	for _, w := range runWarnings {
		fmt.Printf("Warning: campaign %s: %s\n", w.CampaignID, w.Message)
	}

	summary := report.Summarize(enriched)
	fmt.Printf("Scored %d rows — %d critical, $%.0f total revenue at risk\n",
		summary.TotalRows, summary.CriticalCount, summary.TotalRevenueAtRisk)
	for _, tier := range []string{"P1 - CRITICAL", "P2 - HIGH", "P3 - MEDIUM", "P4 - LOW"} {
		fmt.Printf("  %s: %d\n", tier, summary.TierCounts[tier])
	}

	if err := writeScored(*outPath, enriched); err != nil {
		log.Fatalf("writing scored output: %v", err)
	}

	if *htmlPath != "" {
		html, err := report.RenderHTML(runID, summary, enriched)
		if err != nil {
			log.Fatalf("rendering HTML report: %v", err)
		}
		if err := os.WriteFile(*htmlPath, []byte(html), 0o644); err != nil {
			log.Fatalf("writing HTML report: %v", err)
		}
		fmt.Printf("Wrote run report to %s\n", *htmlPath)
	}
}

func resolveLookup(useDB bool, fixturePath string) (benchmark.Lookup, error) {
	if useDB && fixturePath != "" {
		return nil, fmt.Errorf("-db and -benchmarks are mutually exclusive")
	}
	if useDB {
		if err := benchmark.InitDB(context.Background()); err != nil {
			return nil, err
		}
		return benchmark.NewPGStore(), nil
	}
	if fixturePath != "" {
		return benchmark.LoadFileStore(fixturePath)
	}
	return nil, nil
}

func writeScored(outPath string, rows interface{}) error {
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling scored rows: %w", err)
	}
	if outPath == "" {
		_, err := os.Stdout.Write(append(data, '\n'))
		return err
	}
	return os.WriteFile(outPath, data, 0o644)
}
