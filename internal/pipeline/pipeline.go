// Package pipeline chains the cleaning stages into a per-document decision
// and runs whole files and multi-source corpora through them.
package pipeline

import (
	"context"
	"fmt"

	"horse.fit/corpus/internal/cleaner"
	"horse.fit/corpus/internal/dedup"
	"horse.fit/corpus/internal/judge"
	"horse.fit/corpus/internal/langdetect"
	"horse.fit/corpus/internal/pii"
	"horse.fit/corpus/internal/quality"
	"horse.fit/corpus/internal/risk"
)

// Stage names, in pipeline order. A rejected document records the stage that
// rejected it.
const (
	StageClean     = "clean"
	StageLanguage  = "language"
	StageDedup     = "dedup"
	StagePII       = "pii"
	StagePrefilter = "prefilter"
	StageRisk      = "risk"
	StageJudge     = "judge"
)

// Result is the outcome of pushing one document through the stages.
type Result struct {
	Text      string
	Accepted  bool
	Stage     string
	Reason    string
	RiskScore *float64
	Judged    bool
	JudgeErr  bool
}

// Counters aggregates per-stage outcomes across a run.
type Counters struct {
	Total           int64 `json:"total"`
	Kept            int64 `json:"kept"`
	RejectClean     int64 `json:"reject_clean"`
	RejectLanguage  int64 `json:"reject_language"`
	RejectDedup     int64 `json:"reject_dedup"`
	RejectPII       int64 `json:"reject_pii"`
	RejectPrefilter int64 `json:"reject_prefilter"`
	RejectRisk      int64 `json:"reject_risk"`
	RejectJudge     int64 `json:"reject_judge"`
	JudgeChecked    int64 `json:"judge_checked"`
	JudgeErrors     int64 `json:"judge_errors"`
}

// Dropped returns the total number of rejected documents.
func (c Counters) Dropped() int64 {
	return c.Total - c.Kept
}

func (c *Counters) add(other Counters) {
	c.Total += other.Total
	c.Kept += other.Kept
	c.RejectClean += other.RejectClean
	c.RejectLanguage += other.RejectLanguage
	c.RejectDedup += other.RejectDedup
	c.RejectPII += other.RejectPII
	c.RejectPrefilter += other.RejectPrefilter
	c.RejectRisk += other.RejectRisk
	c.RejectJudge += other.RejectJudge
	c.JudgeChecked += other.JudgeChecked
	c.JudgeErrors += other.JudgeErrors
}

// Options assembles the stages a Processor runs. Nil components disable
// their stage; Cleaner is required.
type Options struct {
	Cleaner           *cleaner.Cleaner
	Classifier        langdetect.Classifier
	AllowedLanguages  map[string]struct{}
	MinLangConfidence float64
	PII               *pii.Detector
	RedactPII         bool
	Prefilter         *quality.Prefilter
	Scorer            *risk.Scorer
	Gate              *quality.Gate
	Judge             judge.Judge
}

// SourceOptions tune the pipeline per source file.
type SourceOptions struct {
	// LanguageFilter gates on detected language; trusted monolingual
	// sources turn it off.
	LanguageFilter bool
	// Dedup routes documents through the shared session.
	Dedup bool
}

// Processor applies the configured stages to single documents. It holds no
// per-run state; the dedup session is passed in so callers control its
// scope and ordering.
type Processor struct {
	opts Options
}

func NewProcessor(opts Options) (*Processor, error) {
	if opts.Cleaner == nil {
		return nil, fmt.Errorf("cleaner is required")
	}
	if opts.Gate != nil && opts.Scorer == nil {
		return nil, fmt.Errorf("risk gate requires a scorer")
	}
	return &Processor{opts: opts}, nil
}

// Process pushes one raw document through every enabled stage. The stages
// run in a fixed order: clean, language, dedup, pii, prefilter, risk gate,
// judge. The first rejecting stage wins.
func (p *Processor) Process(ctx context.Context, text string, session *dedup.Session, src SourceOptions) Result {
	cleaned, err := p.opts.Cleaner.CleanAndCheck(text)
	if err != nil {
		return Result{Stage: StageClean, Reason: err.Error()}
	}

	if src.LanguageFilter && p.opts.Classifier != nil {
		code, confidence := p.opts.Classifier.Classify(cleaned)
		if _, ok := p.opts.AllowedLanguages[code]; !ok || confidence < p.opts.MinLangConfidence {
			return Result{Stage: StageLanguage, Reason: fmt.Sprintf("lang=%s confidence=%.2f", code, confidence)}
		}
	}

	if src.Dedup && session != nil {
		if !session.CheckAndRegister(cleaned) {
			return Result{Stage: StageDedup, Reason: "duplicate"}
		}
	}

	if p.opts.PII != nil && p.opts.PII.Contains(cleaned) {
		if !p.opts.RedactPII {
			return Result{Stage: StagePII, Reason: "pii_detected"}
		}
		cleaned = p.opts.PII.Redact(cleaned, "")
	}

	if p.opts.Prefilter != nil {
		if ok, reason := p.opts.Prefilter.Check(cleaned); !ok {
			return Result{Stage: StagePrefilter, Reason: reason}
		}
	}

	if p.opts.Gate != nil {
		score := p.opts.Scorer.Score(cleaned)
		result := Result{Text: cleaned, RiskScore: &score}

		switch p.opts.Gate.Route(score) {
		case quality.Keep:
			result.Accepted = true
			return result
		case quality.Drop:
			result.Stage = StageRisk
			result.Reason = "high_risk"
			return result
		}

		// Grey zone. No judge means fail closed.
		result.Judged = true
		if p.opts.Judge == nil {
			result.Stage = StageJudge
			result.Reason = "no_judge"
			return result
		}
		verdict, err := p.opts.Judge.Judge(ctx, cleaned, score)
		if err != nil {
			result.Stage = StageJudge
			result.Reason = fmt.Sprintf("judge_error: %v", err)
			result.JudgeErr = true
			return result
		}
		if verdict.Action != judge.ActionKeep {
			result.Stage = StageJudge
			result.Reason = verdict.Reason
			return result
		}
		result.Accepted = true
		result.Text = verdict.Text
		return result
	}

	return Result{Text: cleaned, Accepted: true}
}
