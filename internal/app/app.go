package app

import (
	"fmt"
	"os"
	"strings"
)

// Run executes the CLI command and returns a process exit code.
func Run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 2
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "help", "--help", "-h":
		printUsage()
		return 0
	case "health":
		return runHealth(args[1:])
	case "load":
		return runLoad(args[1:])
	case "clean":
		return runClean(args[1:])
	case "quality":
		return runQuality(args[1:])
	case "mix":
		return runMix(args[1:])
	case "process", "run-once":
		return runProcess(args[1:])
	case "report":
		return runReport(args[1:])
	case "serve":
		return runServe(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		return 2
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "corpus CLI")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  corpus <command> [flags]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  health   Verify database connectivity")
	fmt.Fprintln(os.Stderr, "  load     Normalize a raw source file into JSONL records")
	fmt.Fprintln(os.Stderr, "  clean    Run the cleaning stages over one JSONL file")
	fmt.Fprintln(os.Stderr, "  quality  Run only the risk gate and judge over a cleaned file")
	fmt.Fprintln(os.Stderr, "  mix      Compose a corpus from already cleaned sources")
	fmt.Fprintln(os.Stderr, "  process  Run the full pipeline: clean every source, then mix")
	fmt.Fprintln(os.Stderr, "  run-once Alias for process")
	fmt.Fprintln(os.Stderr, "  report   Show recorded pipeline runs")
	fmt.Fprintln(os.Stderr, "  serve    Start the Echo API server")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Use \"corpus <command> -h\" for command-specific flags.")
}
