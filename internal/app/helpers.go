package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"horse.fit/corpus/internal/cleaner"
	"horse.fit/corpus/internal/cli"
	"horse.fit/corpus/internal/config"
	"horse.fit/corpus/internal/db"
	"horse.fit/corpus/internal/dedup"
	"horse.fit/corpus/internal/judge"
	"horse.fit/corpus/internal/langdetect"
	"horse.fit/corpus/internal/pii"
	"horse.fit/corpus/internal/pipeline"
	"horse.fit/corpus/internal/quality"
	"horse.fit/corpus/internal/risk"
)

const (
	outputFormatTable = "table"
	outputFormatJSON  = "json"
)

func parseOutputFormat(raw, defaultFormat string) (string, error) {
	format := strings.TrimSpace(strings.ToLower(raw))
	if format == "" {
		format = strings.TrimSpace(strings.ToLower(defaultFormat))
	}
	switch format {
	case outputFormatTable, outputFormatJSON:
		return format, nil
	default:
		return "", fmt.Errorf("--format must be table or json")
	}
}

func printJSON(value any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func writeTable(headers []string, rows [][]string) error {
	writer := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	if _, err := fmt.Fprintln(writer, strings.Join(headers, "\t")); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintln(writer, strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	return writer.Flush()
}

// newProcessor assembles the full stage chain from configuration. The judge
// name is resolved through the registry; an empty name uses the configured
// default provider.
func newProcessor(cfg *config.Config, judgeName string) (*pipeline.Processor, error) {
	detector, err := pii.New(pii.DefaultPatterns)
	if err != nil {
		return nil, fmt.Errorf("compile pii patterns: %w", err)
	}

	gate, err := quality.NewGate(cfg.KeepThreshold, cfg.JudgeThreshold)
	if err != nil {
		return nil, fmt.Errorf("build risk gate: %w", err)
	}

	j, err := judgeFromConfig(cfg, judgeName)
	if err != nil {
		return nil, err
	}

	allowed := make(map[string]struct{})
	for _, code := range cfg.AllowedLanguageSet() {
		allowed[code] = struct{}{}
	}

	return pipeline.NewProcessor(pipeline.Options{
		Cleaner: cleaner.New(cleaner.Options{
			MinTextLength: cfg.MinTextLength,
			MaxTextLength: cfg.MaxTextLength,
			MaxLinkCount:  cfg.MaxLinkCount,
		}),
		Classifier:        langdetect.NewLingua(),
		AllowedLanguages:  allowed,
		MinLangConfidence: cfg.MinLangConfidence,
		PII:               detector,
		RedactPII:         cfg.RedactPII(),
		Prefilter: quality.NewPrefilter(quality.PrefilterOptions{
			MinWordCount:       cfg.MinWordCount,
			MinUniqueWordRatio: cfg.MinUniqueWordRatio,
			MinSentenceCount:   cfg.MinSentenceCount,
		}),
		Scorer: risk.NewScorer(),
		Gate:   gate,
		Judge:  j,
	})
}

func judgeFromConfig(cfg *config.Config, name string) (judge.Judge, error) {
	registry := judge.NewRegistryFromOptions(judge.Options{
		Default:     cfg.JudgeProvider,
		LLMEndpoint: cfg.JudgeEndpoint,
		LLMModel:    cfg.JudgeModel,
		LLMTimeout:  cfg.JudgeTimeout,
	})
	j, err := registry.Judge(name)
	if err != nil {
		return nil, fmt.Errorf("resolve judge: %w", err)
	}
	return j, nil
}

func dedupOptions(cfg *config.Config) dedup.Options {
	return dedup.Options{
		ExactEnabled:        cfg.ExactDedupEnabled,
		FuzzyEnabled:        cfg.FuzzyDedupEnabled,
		SimilarityThreshold: cfg.FuzzySimilarityThreshold,
		Permutations:        cfg.MinHashPermutations,
	}
}

func connectReadPool(timeout time.Duration, envLoader *cli.EnvLoader) (context.Context, context.CancelFunc, *db.Pool, error) {
	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		cancel()
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return ctx, cancel, pool, nil
}

func printCounters(counters pipeline.Counters) {
	fmt.Printf("processed=%d kept=%d dropped=%d\n", counters.Total, counters.Kept, counters.Dropped())
	fmt.Printf("reject_clean=%d reject_language=%d reject_dedup=%d reject_pii=%d\n",
		counters.RejectClean, counters.RejectLanguage, counters.RejectDedup, counters.RejectPII)
	fmt.Printf("reject_prefilter=%d reject_risk=%d reject_judge=%d\n",
		counters.RejectPrefilter, counters.RejectRisk, counters.RejectJudge)
	fmt.Printf("judge_checked=%d judge_errors=%d\n", counters.JudgeChecked, counters.JudgeErrors)
}
