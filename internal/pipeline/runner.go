package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"horse.fit/corpus/internal/corpusio"
	"horse.fit/corpus/internal/dedup"
	"horse.fit/corpus/internal/mix"
	"horse.fit/corpus/internal/pii"
)

// RunnerOptions configure a multi-source run.
type RunnerOptions struct {
	Dedup dedup.Options
	// Workers bounds concurrent per-source cleaning in parallel mode.
	Workers int
	// Seed makes the mix sampling reproducible.
	Seed int64
	// InjectCanary appends the canary marker record to the final output.
	InjectCanary bool
}

// SourceResult reports one source's cleaning outcome.
type SourceResult struct {
	Name        string   `json:"name"`
	CleanedPath string   `json:"cleaned_path"`
	Counters    Counters `json:"counters"`
}

// Summary is the full accounting of one end-to-end run.
type Summary struct {
	Mode       string         `json:"mode"`
	Sources    []SourceResult `json:"sources"`
	Counters   Counters       `json:"counters"`
	DedupStats dedup.Stats    `json:"dedup_stats"`
	MixReports []mix.Report   `json:"mix_reports"`
	OutputPath string         `json:"output_path"`
}

// Runner drives the two phases of a full run: per-source cleaning, then
// ratio-aware mixing into one output file.
type Runner struct {
	log  zerolog.Logger
	proc *Processor
	opts RunnerOptions
}

func NewRunner(log zerolog.Logger, proc *Processor, opts RunnerOptions) (*Runner, error) {
	if proc == nil {
		return nil, fmt.Errorf("processor is required")
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &Runner{log: log, proc: proc, opts: opts}, nil
}

// RunSequential cleans every source in plan order with one shared dedup
// session, so cross-source duplicates resolve deterministically in favor of
// the earlier source. Then it mixes the cleaned files.
func (r *Runner) RunSequential(ctx context.Context, plan *mix.Plan, workDir, outputPath string) (*Summary, error) {
	if plan == nil {
		return nil, fmt.Errorf("plan is required")
	}

	session := dedup.NewSession(r.opts.Dedup)
	summary := &Summary{Mode: "sequential", OutputPath: outputPath}
	inputs := make(map[string]string, len(plan.Entries))

	for _, entry := range plan.Entries {
		name := entry.Source.Name
		cleanedPath := filepath.Join(workDir, "cleaned", name+".jsonl")
		droppedPath := filepath.Join(workDir, "dropped", name+".jsonl")

		r.log.Info().Str("source", name).Str("input", entry.Source.Path).Msg("cleaning source")
		counters, err := r.proc.ProcessFile(ctx, r.log, session, SourceOptions{
			LanguageFilter: entry.Source.LanguageFilter,
			Dedup:          true,
		}, entry.Source.Path, cleanedPath, droppedPath)
		if err != nil {
			return nil, fmt.Errorf("clean source %q: %w", name, err)
		}

		summary.Sources = append(summary.Sources, SourceResult{Name: name, CleanedPath: cleanedPath, Counters: counters})
		summary.Counters.add(counters)
		inputs[name] = cleanedPath
	}

	summary.DedupStats = session.Stats()
	return r.compose(plan, inputs, outputPath, summary)
}

// RunParallel cleans sources concurrently with dedup deferred: each worker
// cleans without a session, then a single global dedup pass walks the
// staged files in plan order. Duplicate resolution therefore matches the
// sequential mode regardless of worker scheduling.
func (r *Runner) RunParallel(ctx context.Context, plan *mix.Plan, workDir, outputPath string) (*Summary, error) {
	if plan == nil {
		return nil, fmt.Errorf("plan is required")
	}

	summary := &Summary{Mode: "parallel", OutputPath: outputPath}
	results := make([]SourceResult, len(plan.Entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for i, entry := range plan.Entries {
		g.Go(func() error {
			name := entry.Source.Name
			stagedPath := filepath.Join(workDir, "staging", name+".jsonl")
			droppedPath := filepath.Join(workDir, "dropped", name+".jsonl")

			r.log.Info().Str("source", name).Str("input", entry.Source.Path).Msg("cleaning source")
			counters, err := r.proc.ProcessFile(gctx, r.log, nil, SourceOptions{
				LanguageFilter: entry.Source.LanguageFilter,
			}, entry.Source.Path, stagedPath, droppedPath)
			if err != nil {
				return fmt.Errorf("clean source %q: %w", name, err)
			}
			results[i] = SourceResult{Name: name, CleanedPath: stagedPath, Counters: counters}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Global dedup, single threaded, in plan order.
	session := dedup.NewSession(r.opts.Dedup)
	inputs := make(map[string]string, len(plan.Entries))
	for i := range results {
		name := results[i].Name
		cleanedPath := filepath.Join(workDir, "cleaned", name+".jsonl")

		kept, droppedCount, err := DedupFile(ctx, session, results[i].CleanedPath, cleanedPath)
		if err != nil {
			return nil, fmt.Errorf("dedup source %q: %w", name, err)
		}
		r.log.Info().Str("source", name).Int64("kept", kept).Int64("duplicates", droppedCount).Msg("global dedup")

		results[i].CleanedPath = cleanedPath
		results[i].Counters.Kept -= droppedCount
		results[i].Counters.RejectDedup += droppedCount
		inputs[name] = cleanedPath
	}

	for _, res := range results {
		summary.Sources = append(summary.Sources, res)
		summary.Counters.add(res.Counters)
	}
	summary.DedupStats = session.Stats()
	return r.compose(plan, inputs, outputPath, summary)
}

func (r *Runner) compose(plan *mix.Plan, inputs map[string]string, outputPath string, summary *Summary) (*Summary, error) {
	reports, err := mix.NewMixer(r.opts.Seed).Compose(plan, inputs, outputPath)
	if err != nil {
		return nil, fmt.Errorf("compose corpus: %w", err)
	}
	summary.MixReports = reports

	if r.opts.InjectCanary {
		if err := appendCanaryRecord(outputPath); err != nil {
			return nil, fmt.Errorf("append canary: %w", err)
		}
	}

	for _, report := range reports {
		r.log.Info().
			Str("source", report.Source).
			Int("selected", report.Selected).
			Int("target", report.Target).
			Float64("share", report.Share).
			Msg("mix report")
	}
	return summary, nil
}

// appendCanaryRecord adds one marker record to the end of the composed
// corpus so downstream probes can test for verbatim memorization.
func appendCanaryRecord(path string) error {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	line, err := json.Marshal(corpusio.Record{Text: pii.AppendCanary("canary record")})
	if err != nil {
		return err
	}
	if _, err := file.Write(append(line, '\n')); err != nil {
		return err
	}
	return file.Close()
}

// WriteSummary stores the run summary as JSON next to the output corpus.
func WriteSummary(summary *Summary, path string) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create summary directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}
