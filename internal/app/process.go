package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"horse.fit/corpus/internal/cli"
	"horse.fit/corpus/internal/config"
	"horse.fit/corpus/internal/db"
	"horse.fit/corpus/internal/logging"
	"horse.fit/corpus/internal/pipeline"
	mixschema "horse.fit/corpus/schema"
)

func runProcess(args []string) int {
	fs := flag.NewFlagSet("process", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	configPath := fs.String("config", "", "Source mix configuration JSON")
	workDir := fs.String("workdir", "work", "Directory for per-source intermediate files")
	output := fs.String("output", filepath.Join("work", "corpus.jsonl"), "Composed corpus output path")
	summaryPath := fs.String("summary", "", "Run summary JSON path (defaults to <output>.summary.json)")
	parallel := fs.Bool("parallel", false, "Clean sources concurrently")
	canary := fs.Bool("canary", true, "Append the canary marker record to the output")
	judgeName := fs.String("judge", "", "Judge provider (defaults to CORPUS_JUDGE_PROVIDER)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "process does not accept positional arguments")
		return 2
	}
	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "--config is required")
		return 2
	}
	if *summaryPath == "" {
		*summaryPath = *output + ".summary.json"
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

	proc, err := newProcessor(cfg, *judgeName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build pipeline: %v\n", err)
		return 1
	}

	runner, err := pipeline.NewRunner(logger, proc, pipeline.RunnerOptions{
		Dedup:        dedupOptions(cfg),
		Workers:      cfg.Workers,
		Seed:         srcCfg.Seed,
		InjectCanary: *canary,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build runner: %v\n", err)
		return 1
	}

	mode := "sequential"
	if *parallel {
		mode = "parallel"
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

	// The ledger is optional; runs proceed without it when DATABASE_URL is
	// unset.
	var pool *db.Pool
	var ledgerRun *db.PipelineRun
	if cfg.LedgerEnabled() {
		dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
		pool, err = db.NewPool(dbCtx, cfg)
		dbCancel()
		if err != nil {
			logger.Error().Err(err).Msg("database connection failed")
			fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
			return 1
		}
		defer pool.Close()

		ledgerRun, err = pool.InsertRun(ctx, mode, *configPath, *output)
		if err != nil {
			logger.Error().Err(err).Msg("ledger insert failed")
			fmt.Fprintf(os.Stderr, "Failed to record run: %v\n", err)
			return 1
		}
		logger.Info().Str("run_uuid", ledgerRun.RunUUID).Msg("run recorded")
	}

	started := time.Now()
	var summary *pipeline.Summary
	if *parallel {
		summary, err = runner.RunParallel(ctx, plan, *workDir, *output)
	} else {
		summary, err = runner.RunSequential(ctx, plan, *workDir, *output)
	}

	if ledgerRun != nil {
		errorMessage := ""
		if err != nil {
			errorMessage = err.Error()
		}
		finishCtx, finishCancel := context.WithTimeout(context.Background(), 10*time.Second)
		if finishErr := pool.FinishRun(finishCtx, ledgerRun.RunID, summary, errorMessage); finishErr != nil {
			logger.Error().Err(finishErr).Msg("ledger finish failed")
		}
		if err == nil && summary != nil {
			if reportErr := pool.InsertMixReports(finishCtx, ledgerRun.RunID, summary.MixReports); reportErr != nil {
				logger.Error().Err(reportErr).Msg("ledger mix reports failed")
			}
		}
		finishCancel()
	}

	if err != nil {
		logger.Error().Err(err).Str("mode", mode).Msg("pipeline run failed")
		fmt.Fprintf(os.Stderr, "Process failed: %v\n", err)
		return 1
	}

	if err := pipeline.WriteSummary(summary, *summaryPath); err != nil {
		logger.Error().Err(err).Str("path", *summaryPath).Msg("summary write failed")
		fmt.Fprintf(os.Stderr, "Failed to write summary: %v\n", err)
		return 1
	}

	logger.Info().
		Str("mode", mode).
		Dur("elapsed", time.Since(started)).
		Int64("processed", summary.Counters.Total).
		Int64("kept", summary.Counters.Kept).
		Msg("pipeline run finished")

	printCounters(summary.Counters)
	fmt.Printf("exact_dupes=%d near_dupes=%d\n", summary.DedupStats.ExactDuplicates, summary.DedupStats.NearDuplicates)
	fmt.Printf("output=%s summary=%s\n", *output, *summaryPath)
	return 0
}
