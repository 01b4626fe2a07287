package app

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"horse.fit/corpus/internal/loader"
)

func runLoad(args []string) int {
	fs := flag.NewFlagSet("load", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	input := fs.String("input", "", "Raw source file (.jsonl, .json, or plain text)")
	output := fs.String("output", "", "Normalized JSONL output path")
	maxExamples := fs.Int64("max", 0, "Maximum records to write (0 means no limit)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "load does not accept positional arguments")
		return 2
	}
	if *input == "" || *output == "" {
		fmt.Fprintln(os.Stderr, "--input and --output are required")
		return 2
	}

	stats, err := loader.New(*input).Load(*output, *maxExamples)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Load failed: %v\n", err)
		return 1
	}

	fmt.Printf("written=%d skipped=%d reused=%t\n", stats.Written, stats.Skipped, stats.Reused)
	return 0
}
