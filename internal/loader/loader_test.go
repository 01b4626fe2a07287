package loader

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"horse.fit/corpus/internal/corpusio"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func readAllTexts(t *testing.T, path string) []string {
	t.Helper()
	r, err := corpusio.OpenReader(path)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer r.Close()

	var texts []string
	for {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		texts = append(texts, rec.Text)
	}
	return texts
}

func TestLoadJSONLNormalizesAlternateKeys(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeFile(t, dir, "raw.jsonl",
		`{"text":"first document"}
{"content":"second document"}
{"body":"third document"}
not json at all
{"other":"no text here"}
`)
	out := filepath.Join(dir, "normalized.jsonl")

	stats, err := New(in).Load(out, 0)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if stats.Written != 3 {
		t.Fatalf("written %d, want 3", stats.Written)
	}
	if stats.Skipped != 2 {
		t.Fatalf("skipped %d, want 2", stats.Skipped)
	}

	texts := readAllTexts(t, out)
	want := []string{"first document", "second document", "third document"}
	if len(texts) != len(want) {
		t.Fatalf("got %d records, want %d", len(texts), len(want))
	}
	for i := range want {
		if texts[i] != want[i] {
			t.Fatalf("record %d = %q, want %q", i, texts[i], want[i])
		}
	}
}

func TestLoadJSONArray(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeFile(t, dir, "raw.json", `[{"text":"one"},{"text":"two"},{"content":"three"}]`)
	out := filepath.Join(dir, "normalized.jsonl")

	stats, err := New(in).Load(out, 0)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if stats.Written != 3 {
		t.Fatalf("written %d, want 3", stats.Written)
	}
}

func TestLoadPlainText(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeFile(t, dir, "raw.txt", "first line\n\nsecond line\n")
	out := filepath.Join(dir, "normalized.jsonl")

	stats, err := New(in).Load(out, 0)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if stats.Written != 2 {
		t.Fatalf("written %d, want 2", stats.Written)
	}
	if stats.Skipped != 1 {
		t.Fatalf("skipped %d, want 1", stats.Skipped)
	}
}

func TestLoadHonorsMaxExamples(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeFile(t, dir, "raw.txt", "a\nb\nc\nd\ne\n")
	out := filepath.Join(dir, "normalized.jsonl")

	stats, err := New(in).Load(out, 2)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if stats.Written != 2 {
		t.Fatalf("written %d, want 2", stats.Written)
	}
	if got := readAllTexts(t, out); len(got) != 2 {
		t.Fatalf("output has %d records, want 2", len(got))
	}
}

func TestLoadIsIdempotent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeFile(t, dir, "raw.txt", "a\nb\nc\n")
	out := filepath.Join(dir, "normalized.jsonl")

	if _, err := New(in).Load(out, 3); err != nil {
		t.Fatalf("first Load: %v", err)
	}

	// Replacing the input must not matter: the existing output satisfies
	// the request and is reused untouched.
	in2 := writeFile(t, dir, "raw.txt", "x\ny\nz\n")
	stats, err := New(in2).Load(out, 3)
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if !stats.Reused {
		t.Fatal("existing output was not reused")
	}
	if got := readAllTexts(t, out); got[0] != "a" {
		t.Fatalf("output was rewritten, first record %q", got[0])
	}
}
