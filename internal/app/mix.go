package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"horse.fit/corpus/internal/mix"
	mixschema "horse.fit/corpus/schema"
)

func runMix(args []string) int {
	fs := flag.NewFlagSet("mix", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	configPath := fs.String("config", "", "Source mix configuration JSON")
	cleanedDir := fs.String("cleaned-dir", filepath.Join("work", "cleaned"), "Directory holding cleaned per-source JSONL files")
	output := fs.String("output", "", "Composed corpus output path")
	format := fs.String("format", outputFormatTable, "Output format: table or json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "mix does not accept positional arguments")
		return 2
	}
	if *configPath == "" || *output == "" {
		fmt.Fprintln(os.Stderr, "--config and --output are required")
		return 2
	}

	outputFormat, err := parseOutputFormat(*format, outputFormatTable)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid format: %v\n", err)
		return 2
	}

	srcCfg, err := mixschema.LoadSourceConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid source config: %v\n", err)
		return 2
	}

	plan, err := srcCfg.Plan()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid source config: %v\n", err)
		return 2
	}

	inputs := make(map[string]string, len(plan.Entries))
	for _, entry := range plan.Entries {
		inputs[entry.Source.Name] = filepath.Join(*cleanedDir, entry.Source.Name+".jsonl")
	}

	reports, err := mix.NewMixer(srcCfg.Seed).Compose(plan, inputs, *output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Compose failed: %v\n", err)
		return 1
	}

	if outputFormat == outputFormatJSON {
		if err := printJSON(reports); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			return 1
		}
		return 0
	}

	rows := make([][]string, 0, len(reports))
	for _, report := range reports {
		rows = append(rows, []string{
			report.Source,
			fmt.Sprintf("%d", report.Available),
			fmt.Sprintf("%d", report.Target),
			fmt.Sprintf("%d", report.Selected),
			fmt.Sprintf("%.4f", report.Share),
			fmt.Sprintf("%.4f", report.PctOfTarget),
		})
	}
	if err := writeTable([]string{"source", "available", "target", "selected", "share", "pct_of_target"}, rows); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to render mix table: %v\n", err)
		return 1
	}
	return 0
}
