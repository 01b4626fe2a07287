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
	"horse.fit/corpus/internal/dedup"
	"horse.fit/corpus/internal/logging"
	"horse.fit/corpus/internal/pipeline"
)

func runClean(args []string) int {
	fs := flag.NewFlagSet("clean", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	input := fs.String("input", "", "Input JSONL file")
	output := fs.String("output", "", "Output JSONL file for kept documents")
	droppedPath := fs.String("dropped", "", "Optional JSONL file for rejected documents")
	languageFilter := fs.Bool("language-filter", true, "Gate documents on detected language")
	dedupEnabled := fs.Bool("dedup", true, "Drop duplicate documents")
	judgeName := fs.String("judge", "", "Judge provider (defaults to CORPUS_JUDGE_PROVIDER)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "clean does not accept positional arguments")
		return 2
	}
	if *input == "" || *output == "" {
		fmt.Fprintln(os.Stderr, "--input and --output are required")
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

	proc, err := newProcessor(cfg, *judgeName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build pipeline: %v\n", err)
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

	session := dedup.NewSession(dedupOptions(cfg))
	counters, err := proc.ProcessFile(ctx, logger, session, pipeline.SourceOptions{
		LanguageFilter: *languageFilter,
		Dedup:          *dedupEnabled,
	}, *input, *output, *droppedPath)
	if err != nil {
		logger.Error().Err(err).Str("input", *input).Msg("clean failed")
		fmt.Fprintf(os.Stderr, "Clean failed: %v\n", err)
		return 1
	}

	printCounters(counters)
	stats := session.Stats()
	fmt.Printf("exact_dupes=%d near_dupes=%d\n", stats.ExactDuplicates, stats.NearDuplicates)
	return 0
}
