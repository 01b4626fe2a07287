package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"horse.fit/corpus/internal/corpusio"
	"horse.fit/corpus/internal/dedup"
	"horse.fit/corpus/internal/judge"
	"horse.fit/corpus/internal/quality"
	"horse.fit/corpus/internal/risk"
)

const progressInterval = 10_000

// ProcessFile streams one JSONL file through the stages. Kept documents go
// to outPath; rejected ones go to droppedPath with their stage and reason
// when droppedPath is non-empty.
func (p *Processor) ProcessFile(ctx context.Context, log zerolog.Logger, session *dedup.Session, src SourceOptions, inPath, outPath, droppedPath string) (Counters, error) {
	reader, err := corpusio.OpenReader(inPath)
	if err != nil {
		return Counters{}, err
	}
	defer reader.Close()

	out, err := corpusio.CreateWriter(outPath)
	if err != nil {
		return Counters{}, err
	}
	defer out.Close()

	var dropped *corpusio.Writer
	if droppedPath != "" {
		dropped, err = corpusio.CreateWriter(droppedPath)
		if err != nil {
			return Counters{}, err
		}
		defer dropped.Close()
	}

	var counters Counters
	for {
		if err := ctx.Err(); err != nil {
			return counters, err
		}

		rec, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return counters, err
		}
		counters.Total++

		result := p.Process(ctx, rec.Text, session, src)
		counters.record(result)

		if result.Accepted {
			if err := out.Write(corpusio.Record{Text: result.Text}); err != nil {
				return counters, err
			}
		} else if dropped != nil {
			if err := dropped.WriteDropped(corpusio.DroppedRecord{
				Text:      rec.Text,
				Stage:     result.Stage,
				Reason:    result.Reason,
				RiskScore: result.RiskScore,
			}); err != nil {
				return counters, err
			}
		}

		if counters.Total%progressInterval == 0 {
			log.Info().
				Str("input", inPath).
				Int64("processed", counters.Total).
				Int64("kept", counters.Kept).
				Int64("judge_checked", counters.JudgeChecked).
				Msg("processing progress")
		}
	}

	if err := out.Close(); err != nil {
		return counters, err
	}
	if dropped != nil {
		if err := dropped.Close(); err != nil {
			return counters, err
		}
	}
	return counters, nil
}

func (c *Counters) record(result Result) {
	if result.Judged {
		c.JudgeChecked++
	}
	if result.JudgeErr {
		c.JudgeErrors++
	}
	if result.Accepted {
		c.Kept++
		return
	}
	switch result.Stage {
	case StageClean:
		c.RejectClean++
	case StageLanguage:
		c.RejectLanguage++
	case StageDedup:
		c.RejectDedup++
	case StagePII:
		c.RejectPII++
	case StagePrefilter:
		c.RejectPrefilter++
	case StageRisk:
		c.RejectRisk++
	case StageJudge:
		c.RejectJudge++
	}
}

// QualityPass runs only the risk gate and judge over an already cleaned
// file. It exists as a standalone second pass for corpora that were cleaned
// before the gate was introduced.
func QualityPass(ctx context.Context, log zerolog.Logger, scorer *risk.Scorer, gate *quality.Gate, j judge.Judge, inPath, outPath, droppedPath string) (Counters, error) {
	if scorer == nil || gate == nil {
		return Counters{}, fmt.Errorf("scorer and gate are required")
	}

	reader, err := corpusio.OpenReader(inPath)
	if err != nil {
		return Counters{}, err
	}
	defer reader.Close()

	out, err := corpusio.CreateWriter(outPath)
	if err != nil {
		return Counters{}, err
	}
	defer out.Close()

	dropped, err := corpusio.CreateWriter(droppedPath)
	if err != nil {
		return Counters{}, err
	}
	defer dropped.Close()

	var counters Counters
	for {
		if err := ctx.Err(); err != nil {
			return counters, err
		}

		rec, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return counters, err
		}
		counters.Total++

		score := scorer.Score(rec.Text)
		keepText := rec.Text
		drop := false
		stage, reason := "", ""

		switch gate.Route(score) {
		case quality.Keep:
		case quality.Drop:
			drop, stage, reason = true, StageRisk, "high_risk"
		case quality.Review:
			counters.JudgeChecked++
			verdict, judgeErr := judgeVerdict(ctx, j, rec.Text, score)
			if judgeErr != nil {
				counters.JudgeErrors++
				drop, stage, reason = true, StageJudge, fmt.Sprintf("judge_error: %v", judgeErr)
			} else if verdict.Action != judge.ActionKeep {
				drop, stage, reason = true, StageJudge, verdict.Reason
			} else {
				keepText = verdict.Text
			}
		}

		if drop {
			if stage == StageJudge {
				counters.RejectJudge++
			} else {
				counters.RejectRisk++
			}
			if err := dropped.WriteDropped(corpusio.DroppedRecord{
				Text:      rec.Text,
				Stage:     stage,
				Reason:    reason,
				RiskScore: &score,
			}); err != nil {
				return counters, err
			}
			continue
		}

		counters.Kept++
		if err := out.Write(corpusio.Record{Text: keepText}); err != nil {
			return counters, err
		}

		if counters.Total%progressInterval == 0 {
			log.Info().
				Str("input", inPath).
				Int64("processed", counters.Total).
				Int64("kept", counters.Kept).
				Int64("judge_checked", counters.JudgeChecked).
				Msg("quality pass progress")
		}
	}

	if err := out.Close(); err != nil {
		return counters, err
	}
	if err := dropped.Close(); err != nil {
		return counters, err
	}
	return counters, nil
}

func judgeVerdict(ctx context.Context, j judge.Judge, text string, score float64) (judge.Verdict, error) {
	if j == nil {
		return judge.Verdict{}, fmt.Errorf("no judge configured")
	}
	return j.Judge(ctx, text, score)
}

// DedupFile re-filters an already cleaned file through a shared dedup
// session, keeping only first occurrences. It is the global pass that runs
// after parallel per-source cleaning.
func DedupFile(ctx context.Context, session *dedup.Session, inPath, outPath string) (kept, dropped int64, err error) {
	reader, err := corpusio.OpenReader(inPath)
	if err != nil {
		return 0, 0, err
	}
	defer reader.Close()

	out, err := corpusio.CreateWriter(outPath)
	if err != nil {
		return 0, 0, err
	}
	defer out.Close()

	for {
		if err := ctx.Err(); err != nil {
			return kept, dropped, err
		}

		rec, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return kept, dropped, err
		}

		if !session.CheckAndRegister(rec.Text) {
			dropped++
			continue
		}
		if err := out.Write(rec); err != nil {
			return kept, dropped, err
		}
		kept++
	}

	return kept, dropped, out.Close()
}
