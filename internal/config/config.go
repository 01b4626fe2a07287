package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// Optional run ledger. Empty disables persistence.
	DatabaseURL string `envconfig:"DATABASE_URL" default:""`
	DBMinConns  int32  `envconfig:"CORPUS_DB_MIN_CONNS" default:"1"`
	DBMaxConns  int32  `envconfig:"CORPUS_DB_MAX_CONNS" default:"8"`

	// Basic cleaning thresholds.
	MinTextLength int `envconfig:"CORPUS_MIN_TEXT_LENGTH" default:"200"`
	MaxTextLength int `envconfig:"CORPUS_MAX_TEXT_LENGTH" default:"50000"`
	MaxLinkCount  int `envconfig:"CORPUS_MAX_LINK_COUNT" default:"3"`

	// Language gate.
	AllowedLanguages  string  `envconfig:"CORPUS_ALLOWED_LANGUAGES" default:"tr,en"`
	MinLangConfidence float64 `envconfig:"CORPUS_MIN_LANG_CONFIDENCE" default:"0.7"`

	// Deduplication.
	ExactDedupEnabled        bool    `envconfig:"CORPUS_EXACT_DEDUP" default:"true"`
	FuzzyDedupEnabled        bool    `envconfig:"CORPUS_FUZZY_DEDUP" default:"false"`
	FuzzySimilarityThreshold float64 `envconfig:"CORPUS_FUZZY_SIMILARITY_THRESHOLD" default:"0.9"`
	MinHashPermutations      int     `envconfig:"CORPUS_MINHASH_PERMUTATIONS" default:"128"`

	// Pre-quality filter.
	MinWordCount       int     `envconfig:"CORPUS_MIN_WORD_COUNT" default:"10"`
	MinUniqueWordRatio float64 `envconfig:"CORPUS_MIN_UNIQUE_WORD_RATIO" default:"0.3"`
	MinSentenceCount   int     `envconfig:"CORPUS_MIN_SENTENCE_COUNT" default:"3"`

	// PII handling. "reject" drops documents, "redact" rewrites them.
	PIIMode string `envconfig:"CORPUS_PII_MODE" default:"reject"`

	// Risk gate thresholds. Scores below KeepThreshold are kept without judge
	// review; scores at or above JudgeThreshold are dropped without review.
	KeepThreshold  float64 `envconfig:"CORPUS_KEEP_THRESHOLD" default:"0.2"`
	JudgeThreshold float64 `envconfig:"CORPUS_JUDGE_THRESHOLD" default:"0.4"`

	// External judge.
	JudgeProvider string        `envconfig:"CORPUS_JUDGE_PROVIDER" default:"strict"`
	JudgeEndpoint string        `envconfig:"CORPUS_JUDGE_ENDPOINT" default:""`
	JudgeModel    string        `envconfig:"CORPUS_JUDGE_MODEL" default:""`
	JudgeTimeout  time.Duration `envconfig:"CORPUS_JUDGE_TIMEOUT" default:"30s"`

	// Parallel clean phase.
	Workers int `envconfig:"CORPUS_WORKERS" default:"4"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.DBMinConns < 0 {
		return fmt.Errorf("CORPUS_DB_MIN_CONNS must be >= 0")
	}
	if c.DBMaxConns < 1 {
		return fmt.Errorf("CORPUS_DB_MAX_CONNS must be >= 1")
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("CORPUS_DB_MIN_CONNS (%d) cannot exceed CORPUS_DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	if c.MinTextLength < 0 {
		return fmt.Errorf("CORPUS_MIN_TEXT_LENGTH must be >= 0")
	}
	if c.MaxTextLength <= c.MinTextLength {
		return fmt.Errorf("CORPUS_MAX_TEXT_LENGTH (%d) must exceed CORPUS_MIN_TEXT_LENGTH (%d)", c.MaxTextLength, c.MinTextLength)
	}
	if c.MaxLinkCount < 0 {
		return fmt.Errorf("CORPUS_MAX_LINK_COUNT must be >= 0")
	}
	if c.MinLangConfidence < 0 || c.MinLangConfidence > 1 {
		return fmt.Errorf("CORPUS_MIN_LANG_CONFIDENCE must be in [0, 1]")
	}
	if len(c.AllowedLanguageSet()) == 0 {
		return fmt.Errorf("CORPUS_ALLOWED_LANGUAGES must list at least one language code")
	}
	if c.FuzzySimilarityThreshold <= 0 || c.FuzzySimilarityThreshold > 1 {
		return fmt.Errorf("CORPUS_FUZZY_SIMILARITY_THRESHOLD must be in (0, 1]")
	}
	if c.MinHashPermutations < 16 {
		return fmt.Errorf("CORPUS_MINHASH_PERMUTATIONS must be >= 16")
	}
	if c.MinUniqueWordRatio < 0 || c.MinUniqueWordRatio > 1 {
		return fmt.Errorf("CORPUS_MIN_UNIQUE_WORD_RATIO must be in [0, 1]")
	}
	switch strings.ToLower(strings.TrimSpace(c.PIIMode)) {
	case "reject", "redact":
	default:
		return fmt.Errorf("CORPUS_PII_MODE must be \"reject\" or \"redact\"")
	}
	if c.KeepThreshold < 0 || c.KeepThreshold > 1 {
		return fmt.Errorf("CORPUS_KEEP_THRESHOLD must be in [0, 1]")
	}
	if c.JudgeThreshold < 0 || c.JudgeThreshold > 1 {
		return fmt.Errorf("CORPUS_JUDGE_THRESHOLD must be in [0, 1]")
	}
	if c.KeepThreshold >= c.JudgeThreshold {
		return fmt.Errorf("CORPUS_KEEP_THRESHOLD (%.2f) must be strictly below CORPUS_JUDGE_THRESHOLD (%.2f)", c.KeepThreshold, c.JudgeThreshold)
	}
	if c.JudgeTimeout <= 0 {
		return fmt.Errorf("CORPUS_JUDGE_TIMEOUT must be positive")
	}
	if c.Workers < 1 {
		return fmt.Errorf("CORPUS_WORKERS must be >= 1")
	}
	return nil
}

// AllowedLanguageSet parses CORPUS_ALLOWED_LANGUAGES into lowercase ISO 639-1 codes.
func (c *Config) AllowedLanguageSet() []string {
	if c == nil {
		return nil
	}

	parts := strings.Split(c.AllowedLanguages, ",")
	codes := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		code := strings.ToLower(strings.TrimSpace(part))
		if code == "" {
			continue
		}
		if _, exists := seen[code]; exists {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	return codes
}

// RedactPII reports whether PII should be redacted in place instead of
// rejecting the document.
func (c *Config) RedactPII() bool {
	if c == nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(c.PIIMode), "redact")
}

// LedgerEnabled reports whether run results should be persisted.
func (c *Config) LedgerEnabled() bool {
	if c == nil {
		return false
	}
	return strings.TrimSpace(c.DatabaseURL) != ""
}
