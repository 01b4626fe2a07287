package mixschema

import (
	"encoding/json"
	"testing"
)

func validConfigJSON() string {
	return `{
  "total_target_examples": 10000000,
  "overfetch_factor": 1.5,
  "sources": [
    {"name": "mc4_tr", "path": "raw/mc4_tr.jsonl", "target": 0.30, "min": 0.25, "max": 0.35, "language_filter": true},
    {"name": "wiki_tr", "path": "raw/wiki_tr.jsonl", "target": 0.125, "min": 0.10, "max": 0.15, "language_filter": false},
    {"name": "wiki_en", "path": "raw/wiki_en.jsonl", "target": 0.225, "min": 0.20, "max": 0.25, "language_filter": false},
    {"name": "tech_docs", "path": "raw/tech_docs.jsonl", "target": 0.175, "min": 0.15, "max": 0.20, "language_filter": true},
    {"name": "c4_en", "path": "raw/c4_en.jsonl", "target": 0.075, "min": 0.05, "max": 0.10, "language_filter": true}
  ]
}`
}

func TestValidateSourceConfig(t *testing.T) {
	t.Parallel()

	config, err := ValidateSourceConfig(json.RawMessage(validConfigJSON()))
	if err != nil {
		t.Fatalf("ValidateSourceConfig: %v", err)
	}

	if config.TotalTargetExamples != 10_000_000 {
		t.Fatalf("total %d, want 10000000", config.TotalTargetExamples)
	}
	if len(config.Sources) != 5 {
		t.Fatalf("sources %d, want 5", len(config.Sources))
	}
	if !config.Sources[0].LanguageFilter {
		t.Fatal("mc4_tr should keep its language filter")
	}
	if config.Sources[1].LanguageFilter {
		t.Fatal("wiki_tr should bypass the language filter")
	}

	plan, err := config.Plan()
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if entry, ok := plan.Entry("mc4_tr"); !ok || entry.TargetCount != 3_000_000 {
		t.Fatalf("mc4_tr entry: %+v ok=%v", entry, ok)
	}
}

func TestValidateSourceConfigDefaultsOverfetch(t *testing.T) {
	t.Parallel()

	config, err := ValidateSourceConfig(json.RawMessage(`{
  "total_target_examples": 100,
  "sources": [{"name": "a", "path": "a.jsonl", "target": 0.5, "min": 0.4, "max": 0.6}]
}`))
	if err != nil {
		t.Fatalf("ValidateSourceConfig: %v", err)
	}
	if config.OverfetchFactor != DefaultOverfetch {
		t.Fatalf("overfetch %f, want %f", config.OverfetchFactor, DefaultOverfetch)
	}
}

func TestValidateSourceConfigRejections(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"not json", "nope"},
		{"trailing content", `{"total_target_examples": 1, "sources": [{"name":"a","path":"p","target":0.5,"min":0.4,"max":0.6}]} extra`},
		{"missing sources", `{"total_target_examples": 100}`},
		{"unknown field", `{"total_target_examples": 100, "bogus": true, "sources": [{"name":"a","path":"p","target":0.5,"min":0.4,"max":0.6}]}`},
		{"zero total", `{"total_target_examples": 0, "sources": [{"name":"a","path":"p","target":0.5,"min":0.4,"max":0.6}]}`},
		{"missing path", `{"total_target_examples": 100, "sources": [{"name":"a","target":0.5,"min":0.4,"max":0.6}]}`},
		{"target outside band", `{"total_target_examples": 100, "sources": [{"name":"a","path":"p","target":0.7,"min":0.4,"max":0.6}]}`},
		{"targets above one", `{"total_target_examples": 100, "sources": [
			{"name":"a","path":"p","target":0.6,"min":0.5,"max":0.7},
			{"name":"b","path":"p","target":0.6,"min":0.5,"max":0.7}
		]}`},
	}
	for _, tc := range cases {
		if _, err := ValidateSourceConfig(json.RawMessage(tc.raw)); err == nil {
			t.Fatalf("%s: config accepted", tc.name)
		}
	}
}
