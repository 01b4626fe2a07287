package app

import (
	"testing"

	"horse.fit/corpus/internal/config"
)

func TestRunUnknownCommand(t *testing.T) {
	if code := Run([]string{"bogus"}); code != 2 {
		t.Fatalf("unknown command exit code %d, want 2", code)
	}
	if code := Run(nil); code != 2 {
		t.Fatalf("missing command exit code %d, want 2", code)
	}
	if code := Run([]string{"help"}); code != 0 {
		t.Fatalf("help exit code %d, want 0", code)
	}
}

func TestParseOutputFormat(t *testing.T) {
	t.Parallel()

	if format, err := parseOutputFormat("", outputFormatTable); err != nil || format != outputFormatTable {
		t.Fatalf("empty format: got %q, %v", format, err)
	}
	if format, err := parseOutputFormat(" JSON ", outputFormatTable); err != nil || format != outputFormatJSON {
		t.Fatalf("json format: got %q, %v", format, err)
	}
	if _, err := parseOutputFormat("yaml", outputFormatTable); err == nil {
		t.Fatal("invalid format accepted")
	}
}

func TestNewProcessorFromDefaults(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		Environment:              "local",
		LogLevel:                 "info",
		MinTextLength:            200,
		MaxTextLength:            50000,
		MaxLinkCount:             3,
		AllowedLanguages:         "tr,en",
		MinLangConfidence:        0.7,
		ExactDedupEnabled:        true,
		FuzzySimilarityThreshold: 0.9,
		MinHashPermutations:      128,
		MinWordCount:             10,
		MinUniqueWordRatio:       0.3,
		MinSentenceCount:         3,
		PIIMode:                  "reject",
		KeepThreshold:            0.2,
		JudgeThreshold:           0.4,
		JudgeProvider:            "strict",
		Workers:                  4,
	}

	proc, err := newProcessor(cfg, "")
	if err != nil {
		t.Fatalf("newProcessor: %v", err)
	}
	if proc == nil {
		t.Fatal("nil processor")
	}

	opts := dedupOptions(cfg)
	if !opts.ExactEnabled || opts.FuzzyEnabled {
		t.Fatalf("unexpected dedup options: %+v", opts)
	}
	if opts.Permutations != 128 {
		t.Fatalf("permutations %d, want 128", opts.Permutations)
	}
}

func TestNewProcessorRejectsInvertedThresholds(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		AllowedLanguages: "tr",
		KeepThreshold:    0.5,
		JudgeThreshold:   0.4,
	}
	if _, err := newProcessor(cfg, ""); err == nil {
		t.Fatal("inverted thresholds accepted")
	}
}
