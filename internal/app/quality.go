package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"horse.fit/corpus/internal/cli"
	"horse.fit/corpus/internal/config"
	"horse.fit/corpus/internal/logging"
	"horse.fit/corpus/internal/pipeline"
	"horse.fit/corpus/internal/quality"
	"horse.fit/corpus/internal/risk"
)

func runQuality(args []string) int {
	fs := flag.NewFlagSet("quality", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	input := fs.String("input", "", "Cleaned JSONL file to re-score")
	output := fs.String("output", "", "Output JSONL file for kept documents")
	droppedPath := fs.String("dropped", "", "JSONL file for rejected documents")
	judgeName := fs.String("judge", "", "Judge provider (defaults to CORPUS_JUDGE_PROVIDER)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "quality does not accept positional arguments")
		return 2
	}
	if *input == "" || *output == "" || *droppedPath == "" {
		fmt.Fprintln(os.Stderr, "--input, --output and --dropped are required")
		return 2
	}

	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}

	gate, err := quality.NewGate(cfg.KeepThreshold, cfg.JudgeThreshold)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build risk gate: %v\n", err)
		return 1
	}

	j, err := judgeFromConfig(cfg, *judgeName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to resolve judge: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		<-sigCh
		cancel()
	}()

	counters, err := pipeline.QualityPass(ctx, logger, risk.NewScorer(), gate, j, *input, *output, *droppedPath)
	if err != nil {
		logger.Error().Err(err).Str("input", *input).Msg("quality pass failed")
		fmt.Fprintf(os.Stderr, "Quality pass failed: %v\n", err)
		return 1
	}

	printCounters(counters)
	return 0
}
