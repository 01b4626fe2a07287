package mix

import (
	"fmt"
	"path/filepath"
	"testing"

	"horse.fit/corpus/internal/corpusio"
)

func writeSourceFile(t *testing.T, dir, name string, count int) string {
	t.Helper()
	path := filepath.Join(dir, name+".jsonl")
	w, err := corpusio.CreateWriter(path)
	if err != nil {
		t.Fatalf("CreateWriter: %v", err)
	}
	for i := 0; i < count; i++ {
		if err := w.Write(corpusio.Record{Text: fmt.Sprintf("%s document %d", name, i)}); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return path
}

func TestBuildPlanResolvesCounts(t *testing.T) {
	t.Parallel()

	specs := []SourceSpec{
		{Name: "wiki_tr", Target: 0.125, Min: 0.10, Max: 0.15},
		{Name: "mc4_tr", Target: 0.30, Min: 0.25, Max: 0.35},
	}
	plan, err := BuildPlan(specs, 10_000_000, 1.5)
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}

	entry, ok := plan.Entry("wiki_tr")
	if !ok {
		t.Fatal("wiki_tr missing from plan")
	}
	if entry.TargetCount != 1_250_000 {
		t.Fatalf("wiki_tr target %d, want 1250000", entry.TargetCount)
	}
	if entry.FetchCount != 1_875_000 {
		t.Fatalf("wiki_tr fetch %d, want 1875000", entry.FetchCount)
	}
}

func TestBuildPlanAllowsRatioSumBelowOne(t *testing.T) {
	t.Parallel()

	// Mirrors a production mix whose targets sum to 0.90.
	specs := []SourceSpec{
		{Name: "mc4_tr", Target: 0.30, Min: 0.25, Max: 0.35},
		{Name: "wiki_tr", Target: 0.125, Min: 0.10, Max: 0.15},
		{Name: "wiki_en", Target: 0.225, Min: 0.20, Max: 0.25},
		{Name: "tech_docs", Target: 0.175, Min: 0.15, Max: 0.20},
		{Name: "c4_en", Target: 0.075, Min: 0.05, Max: 0.10},
	}
	if _, err := BuildPlan(specs, 1000, 1.5); err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
}

func TestBuildPlanRejectsBadSpecs(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		specs []SourceSpec
	}{
		{"empty", nil},
		{"target above max", []SourceSpec{{Name: "a", Target: 0.5, Min: 0.1, Max: 0.4}}},
		{"target below min", []SourceSpec{{Name: "a", Target: 0.05, Min: 0.1, Max: 0.4}}},
		{"sum above one", []SourceSpec{
			{Name: "a", Target: 0.6, Min: 0.5, Max: 0.7},
			{Name: "b", Target: 0.6, Min: 0.5, Max: 0.7},
		}},
		{"duplicate name", []SourceSpec{
			{Name: "a", Target: 0.2, Min: 0.1, Max: 0.3},
			{Name: "a", Target: 0.2, Min: 0.1, Max: 0.3},
		}},
		{"missing name", []SourceSpec{{Target: 0.2, Min: 0.1, Max: 0.3}}},
	}
	for _, tc := range cases {
		if _, err := BuildPlan(tc.specs, 1000, 1.5); err == nil {
			t.Fatalf("%s: BuildPlan accepted invalid specs", tc.name)
		}
	}
}

func TestComposeSelectsQuotas(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	inputs := map[string]string{
		"big":   writeSourceFile(t, dir, "big", 500),
		"small": writeSourceFile(t, dir, "small", 500),
	}

	specs := []SourceSpec{
		{Name: "big", Target: 0.6, Min: 0.5, Max: 0.7},
		{Name: "small", Target: 0.4, Min: 0.3, Max: 0.5},
	}
	plan, err := BuildPlan(specs, 500, 1.5)
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}

	outPath := filepath.Join(dir, "train.jsonl")
	reports, err := NewMixer(1).Compose(plan, inputs, outPath)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	lines, err := corpusio.CountLines(outPath)
	if err != nil {
		t.Fatalf("CountLines: %v", err)
	}
	if lines != 500 {
		t.Fatalf("output has %d lines, want 500", lines)
	}

	total := 0
	for _, r := range reports {
		if r.Selected != r.Target {
			t.Fatalf("source %s selected %d, want %d", r.Source, r.Selected, r.Target)
		}
		if r.Available != 500 {
			t.Fatalf("source %s available %d, want 500", r.Source, r.Available)
		}
		if r.PctOfTarget != 1.0 {
			t.Fatalf("source %s pct of target %f, want 1.0", r.Source, r.PctOfTarget)
		}
		total += r.Selected
	}
	if total != 500 {
		t.Fatalf("selected %d total, want 500", total)
	}
}

func TestComposeShortSourceKeepsEverything(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	inputs := map[string]string{
		"short": writeSourceFile(t, dir, "short", 100),
	}

	plan, err := BuildPlan([]SourceSpec{
		{Name: "short", Target: 1.0, Min: 0.9, Max: 1.0},
	}, 2000, 1.5)
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}

	reports, err := NewMixer(1).Compose(plan, inputs, filepath.Join(dir, "train.jsonl"))
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	r := reports[0]
	if r.Selected != 100 {
		t.Fatalf("selected %d, want all 100 available", r.Selected)
	}
	if r.PctOfTarget != 0.05 {
		t.Fatalf("pct of target %f, want 0.05", r.PctOfTarget)
	}
	// Share is computed from what was actually written.
	if r.Share != 1.0 {
		t.Fatalf("share %f, want 1.0", r.Share)
	}
}

func TestComposeMissingInputFails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	plan, err := BuildPlan([]SourceSpec{
		{Name: "ghost", Target: 1.0, Min: 0.9, Max: 1.0},
	}, 100, 1.5)
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}

	if _, err := NewMixer(1).Compose(plan, nil, filepath.Join(dir, "train.jsonl")); err == nil {
		t.Fatal("Compose must fail when a source has no input file")
	}
}
