// Package mix composes the final corpus from per-source cleaned files
// according to target ratios.
package mix

import (
	"fmt"
	"math"
)

// SourceSpec declares one source's share of the final corpus. Target, Min and
// Max are fractions of the total; LanguageFilter marks whether the source
// needs language detection during cleaning.
type SourceSpec struct {
	Name           string  `json:"name"`
	Path           string  `json:"path"`
	Target         float64 `json:"target"`
	Min            float64 `json:"min"`
	Max            float64 `json:"max"`
	LanguageFilter bool    `json:"language_filter"`
}

// PlanEntry is one source's resolved quota.
type PlanEntry struct {
	Source      SourceSpec
	TargetCount int
	FetchCount  int
}

// Plan is the resolved per-source quota table for one run.
type Plan struct {
	TotalTarget int
	Overfetch   float64
	Entries     []PlanEntry
}

// BuildPlan validates the specs and resolves counts. Each target must sit
// inside its [min, max] band and the targets together must not exceed 1; a
// sum below 1 is allowed and simply leaves headroom. FetchCount scales the
// target by the overfetch factor to compensate for downstream filter losses.
func BuildPlan(specs []SourceSpec, totalTarget int, overfetch float64) (*Plan, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("at least one source is required")
	}
	if totalTarget <= 0 {
		return nil, fmt.Errorf("total target must be positive, got %d", totalTarget)
	}
	if overfetch < 1 {
		return nil, fmt.Errorf("overfetch factor must be at least 1, got %f", overfetch)
	}

	seen := make(map[string]struct{}, len(specs))
	sum := 0.0
	for _, spec := range specs {
		if spec.Name == "" {
			return nil, fmt.Errorf("source name is required")
		}
		if _, dup := seen[spec.Name]; dup {
			return nil, fmt.Errorf("duplicate source %q", spec.Name)
		}
		seen[spec.Name] = struct{}{}

		if spec.Min < 0 || spec.Max > 1 || spec.Min > spec.Max {
			return nil, fmt.Errorf("source %q: invalid ratio band [%f, %f]", spec.Name, spec.Min, spec.Max)
		}
		if spec.Target < spec.Min || spec.Target > spec.Max {
			return nil, fmt.Errorf("source %q: target %f outside band [%f, %f]", spec.Name, spec.Target, spec.Min, spec.Max)
		}
		sum += spec.Target
	}
	if sum > 1+1e-9 {
		return nil, fmt.Errorf("source targets sum to %f, must not exceed 1", sum)
	}

	plan := &Plan{TotalTarget: totalTarget, Overfetch: overfetch}
	for _, spec := range specs {
		target := int(math.Round(spec.Target * float64(totalTarget)))
		fetch := int(math.Ceil(float64(target) * overfetch))
		plan.Entries = append(plan.Entries, PlanEntry{
			Source:      spec,
			TargetCount: target,
			FetchCount:  fetch,
		})
	}
	return plan, nil
}

// Entry resolves a plan entry by source name.
func (p *Plan) Entry(name string) (PlanEntry, bool) {
	if p == nil {
		return PlanEntry{}, false
	}
	for _, e := range p.Entries {
		if e.Source.Name == name {
			return e, true
		}
	}
	return PlanEntry{}, false
}
