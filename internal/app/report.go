package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"horse.fit/corpus/internal/cli"
	"horse.fit/corpus/internal/db"
)

func runReport(args []string) int {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 30*time.Second, "Command timeout")
	format := fs.String("format", outputFormatTable, "Output format: table or json")
	limit := fs.Int("limit", 20, "Number of runs to list")
	runUUID := fs.String("run", "", "Run UUID for a single-run report with its mix")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "report does not accept positional arguments")
		return 2
	}

	outputFormat, err := parseOutputFormat(*format, outputFormatTable)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid format: %v\n", err)
		return 2
	}

	ctx, cancel, pool, err := connectReadPool(*timeout, envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer cancel()
	defer pool.Close()

	if uuid := strings.TrimSpace(*runUUID); uuid != "" {
		return reportRunDetail(ctx, pool, uuid, outputFormat)
	}

	runs, err := pool.ListRuns(ctx, *limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list runs: %v\n", err)
		return 1
	}

	if outputFormat == outputFormatJSON {
		if err := printJSON(runs); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			return 1
		}
		return 0
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		finished := ""
		if run.FinishedAt != nil {
			finished = run.FinishedAt.UTC().Format(time.RFC3339)
		}
		rows = append(rows, []string{
			run.RunUUID,
			run.Mode,
			run.Status,
			run.StartedAt.UTC().Format(time.RFC3339),
			finished,
			fmt.Sprintf("%d", run.TotalProcessed),
			fmt.Sprintf("%d", run.TotalKept),
			fmt.Sprintf("%d", run.TotalDropped),
		})
	}
	if err := writeTable([]string{"run_uuid", "mode", "status", "started_at", "finished_at", "processed", "kept", "dropped"}, rows); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to render run table: %v\n", err)
		return 1
	}
	return 0
}

func reportRunDetail(ctx context.Context, pool *db.Pool, runUUID, outputFormat string) int {
	run, err := pool.GetRun(ctx, runUUID)
	if err != nil {
		if db.IsNoRows(err) {
			fmt.Fprintf(os.Stderr, "Run %s not found\n", runUUID)
			return 1
		}
		fmt.Fprintf(os.Stderr, "Failed to load run: %v\n", err)
		return 1
	}

	reports, err := pool.GetRunMixReports(ctx, run.RunID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load mix reports: %v\n", err)
		return 1
	}

	if outputFormat == outputFormatJSON {
		if err := printJSON(map[string]any{"run": run, "mix": reports}); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			return 1
		}
		return 0
	}

	runRows := [][]string{
		{"run_uuid", run.RunUUID},
		{"mode", run.Mode},
		{"status", run.Status},
		{"config_path", run.ConfigPath},
		{"output_path", run.OutputPath},
		{"processed", fmt.Sprintf("%d", run.TotalProcessed)},
		{"kept", fmt.Sprintf("%d", run.TotalKept)},
		{"dropped", fmt.Sprintf("%d", run.TotalDropped)},
		{"judge_checked", fmt.Sprintf("%d", run.JudgeChecked)},
		{"exact_dupes", fmt.Sprintf("%d", run.ExactDupes)},
		{"near_dupes", fmt.Sprintf("%d", run.NearDupes)},
	}
	if err := writeTable([]string{"field", "value"}, runRows); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to render run table: %v\n", err)
		return 1
	}

	if len(reports) == 0 {
		return 0
	}

	fmt.Println()
	mixRows := make([][]string, 0, len(reports))
	for _, report := range reports {
		mixRows = append(mixRows, []string{
			report.Source,
			fmt.Sprintf("%d", report.Available),
			fmt.Sprintf("%d", report.Target),
			fmt.Sprintf("%d", report.Selected),
			fmt.Sprintf("%.4f", report.Share),
			fmt.Sprintf("%.4f", report.PctOfTarget),
		})
	}
	if err := writeTable([]string{"source", "available", "target", "selected", "share", "pct_of_target"}, mixRows); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to render mix table: %v\n", err)
		return 1
	}
	return 0
}
