package judge

import (
	"context"

	"horse.fit/corpus/internal/risk"
)

// StrictJudge is a deterministic offline judge: it drops any grey-zone
// document that carries a toxic or PII signal and keeps the rest unchanged.
// It exists so the pipeline can run without an LLM endpoint.
type StrictJudge struct {
	scorer *risk.Scorer
}

func NewStrictJudge() *StrictJudge {
	return &StrictJudge{scorer: risk.NewScorer()}
}

func (j *StrictJudge) Name() string {
	return "strict"
}

func (j *StrictJudge) Judge(_ context.Context, text string, _ float64) (Verdict, error) {
	if j == nil {
		return Verdict{}, nil
	}
	breakdown := j.scorer.Breakdown(text)
	if _, ok := breakdown["toxic"]; ok {
		return Verdict{Action: ActionDrop, Reason: "toxic"}, nil
	}
	if _, ok := breakdown["pii"]; ok {
		return Verdict{Action: ActionDrop, Reason: "pii"}, nil
	}
	return Verdict{Action: ActionKeep, Text: text, Reason: "ok"}, nil
}
