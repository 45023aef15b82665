package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/vanshika/lottrace/internal/generator"
)

func main() {
	cfg := generator.DefaultConfig()
	var (
		lots         = flag.Int("lots", cfg.NumLots, "number of lots to generate")
		holdShare    = flag.Float64("hold-share", cfg.HoldShare, "fraction of lots created in HOLD status")
		investigate  = flag.Float64("investigate-share", cfg.InvestigateShare, "fraction of lots created in INVESTIGATE status")
		exportChance = flag.Float64("export-chance", cfg.ExportChance, "probability that an OK lot is shipped to an exporter")
		seed         = flag.Int64("seed", cfg.Seed, "random seed for deterministic generation")
		anchor       = flag.String("anchor", "", "RFC 3339 end of the harvest window (default now)")
		outputDir    = flag.String("output-dir", "data", "directory to write nodes.json, lots.json and movements.json")
		writeStdout  = flag.Bool("stdout", false, "write combined dataset to stdout instead of files")
	)
	flag.Parse()

	genCfg := generator.Config{
		NumLots:          *lots,
		HoldShare:        clampProbability(*holdShare),
		InvestigateShare: clampProbability(*investigate),
		ExportChance:     clampProbability(*exportChance),
		Seed:             *seed,
	}
	if *anchor != "" {
		ts, err := time.Parse(time.RFC3339, *anchor)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid anchor: %v\n", err)
			os.Exit(1)
		}
		genCfg.Anchor = ts
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	gen := generator.New(genCfg)
	dataset, err := gen.Generate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
		os.Exit(1)
	}

	if *writeStdout {
		if err := json.NewEncoder(os.Stdout).Encode(dataset); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write dataset to stdout: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := generator.WriteDataset(dataset, *outputDir); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write dataset: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "Generated %d nodes, %d lots and %d movements into %s\n",
		len(dataset.Nodes), len(dataset.Lots), len(dataset.Movements), *outputDir)
}

func clampProbability(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
