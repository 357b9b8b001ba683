package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/retailops/procurement/pkg/interfaces/cli/commands"
)

func main() {
	// Command line flags
	var (
		date = flag.String(
			"date",
			"",
			"Calculation date in YYYY-MM-DD format (default: today)",
		)
		inputDir = flag.String("input", "", "Input directory with raw feeds and reference CSVs")
		lakeDir  = flag.String("lake", "", "Data lake directory for partitioned outputs")
		format   = flag.String("format", "text", "Console output format: text, json")
		verbose  = flag.Bool("verbose", false, "Include the net-demand table in text output")
		help     = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	// Create command configuration
	config := commands.Config{
		CalculationDate: *date,
		InputDir:        *inputDir,
		LakeDir:         *lakeDir,
		Format:          *format,
		Verbose:         *verbose,
		Help:            *help,
	}

	// Create and execute command
	cmd := commands.NewRunCommand(config)
	ctx := context.Background()

	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
