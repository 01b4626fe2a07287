package mix

import (
	"fmt"
	"io"
	"math/rand"

	"horse.fit/corpus/internal/corpusio"
)

// Report summarizes one source's contribution to the composed corpus. Share
// is computed against the number of examples actually written, not the
// planned total, so the percentages always sum to 1 even when sources run
// short.
type Report struct {
	Source      string  `json:"source"`
	Available   int     `json:"available"`
	Target      int     `json:"target"`
	Selected    int     `json:"selected"`
	Share       float64 `json:"share"`
	PctOfTarget float64 `json:"pct_of_target"`
}

// Mixer samples each source's cleaned file down to its quota and merges the
// samples into one output file. Sampling is uniform and reproducible for a
// fixed seed.
type Mixer struct {
	rng *rand.Rand
}

func NewMixer(seed int64) *Mixer {
	return &Mixer{rng: rand.New(rand.NewSource(seed))}
}

// Compose fills outputPath from the per-source input files named in the
// plan. A source that cannot fill its quota contributes everything it has;
// nothing is borrowed from other sources to cover the gap.
func (m *Mixer) Compose(plan *Plan, inputs map[string]string, outputPath string) ([]Report, error) {
	if plan == nil {
		return nil, fmt.Errorf("plan is required")
	}

	out, err := corpusio.CreateWriter(outputPath)
	if err != nil {
		return nil, fmt.Errorf("create mix output: %w", err)
	}
	defer out.Close()

	reports := make([]Report, 0, len(plan.Entries))
	totalSelected := 0

	for _, entry := range plan.Entries {
		path, ok := inputs[entry.Source.Name]
		if !ok {
			return nil, fmt.Errorf("no input file for source %q", entry.Source.Name)
		}

		sample, available, err := m.sampleFile(path, entry.TargetCount)
		if err != nil {
			return nil, fmt.Errorf("sample source %q: %w", entry.Source.Name, err)
		}

		for _, text := range sample {
			if err := out.Write(corpusio.Record{Text: text}); err != nil {
				return nil, fmt.Errorf("write mixed output: %w", err)
			}
		}

		report := Report{
			Source:    entry.Source.Name,
			Available: available,
			Target:    entry.TargetCount,
			Selected:  len(sample),
		}
		if entry.TargetCount > 0 {
			report.PctOfTarget = float64(report.Selected) / float64(entry.TargetCount)
		}
		reports = append(reports, report)
		totalSelected += report.Selected
	}

	if err := out.Close(); err != nil {
		return nil, fmt.Errorf("close mix output: %w", err)
	}

	for i := range reports {
		if totalSelected > 0 {
			reports[i].Share = float64(reports[i].Selected) / float64(totalSelected)
		}
	}
	return reports, nil
}

// sampleFile reservoir-samples up to limit records from one JSONL file,
// holding only the sample in memory.
func (m *Mixer) sampleFile(path string, limit int) ([]string, int, error) {
	reader, err := corpusio.OpenReader(path)
	if err != nil {
		return nil, 0, err
	}
	defer reader.Close()

	var sample []string
	seen := 0
	for {
		rec, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, err
		}
		seen++
		if limit <= 0 {
			continue
		}
		if len(sample) < limit {
			sample = append(sample, rec.Text)
			continue
		}
		if j := m.rng.Intn(seen); j < limit {
			sample[j] = rec.Text
		}
	}
	return sample, seen, nil
}
