package dedup

import (
	"fmt"
	"strings"
	"testing"
)

func exactSession() *Session {
	return NewSession(Options{ExactEnabled: true})
}

func fullSession() *Session {
	return NewSession(Options{
		ExactEnabled:        true,
		FuzzyEnabled:        true,
		SimilarityThreshold: 0.9,
		Permutations:        128,
	})
}

func TestExactDedupAcceptThenReject(t *testing.T) {
	t.Parallel()

	s := exactSession()
	texts := []string{
		"a short document",
		"başka bir belge daha",
		"the quick brown fox jumps over the lazy dog",
	}
	for _, text := range texts {
		if !s.CheckAndRegister(text) {
			t.Fatalf("first submission rejected: %q", text)
		}
		if s.CheckAndRegister(text) {
			t.Fatalf("second submission accepted: %q", text)
		}
	}
}

func TestExactDedupNormalizesWhitespace(t *testing.T) {
	t.Parallel()

	s := exactSession()
	if !s.CheckAndRegister("a b") {
		t.Fatal("first variant rejected")
	}
	if s.CheckAndRegister("a  b") {
		t.Fatal("whitespace variant not treated as exact duplicate")
	}
	if s.CheckAndRegister("a\n\tb ") {
		t.Fatal("newline variant not treated as exact duplicate")
	}
}

func TestContentHashIsPureFunctionOfNormalizedText(t *testing.T) {
	t.Parallel()

	if ContentHash("a  b") != ContentHash("a b") {
		t.Fatal("hashes differ for whitespace variants")
	}
	if ContentHash("a b") == ContentHash("a c") {
		t.Fatal("hash collision for distinct texts")
	}
}

func TestFuzzyDedupCatchesReorderedText(t *testing.T) {
	t.Parallel()

	s := fullSession()
	words := make([]string, 40)
	for i := range words {
		words[i] = fmt.Sprintf("word%02d", i)
	}
	original := strings.Join(words, " ")

	reordered := make([]string, len(words))
	copy(reordered, words)
	reordered[0], reordered[len(words)-1] = reordered[len(words)-1], reordered[0]
	shuffled := strings.Join(reordered, " ")

	if !s.CheckAndRegister(original) {
		t.Fatal("original rejected")
	}
	// Same word set, different order: exact hashes differ but the MinHash
	// signatures are identical, so the LSH index must flag it.
	if s.CheckAndRegister(shuffled) {
		t.Fatal("reordered near-duplicate accepted")
	}

	stats := s.Stats()
	if stats.NearDuplicates != 1 {
		t.Fatalf("expected 1 near duplicate, got %d", stats.NearDuplicates)
	}
	if stats.ExactDuplicates != 0 {
		t.Fatalf("expected 0 exact duplicates, got %d", stats.ExactDuplicates)
	}
}

func TestFuzzyDedupAllowsDistinctText(t *testing.T) {
	t.Parallel()

	s := fullSession()
	if !s.CheckAndRegister("alpha beta gamma delta epsilon zeta eta theta") {
		t.Fatal("first distinct document rejected")
	}
	if !s.CheckAndRegister("one two three four five six seven eight nine ten") {
		t.Fatal("second distinct document rejected")
	}
}

func TestExactCheckPrecedesFuzzy(t *testing.T) {
	t.Parallel()

	s := fullSession()
	if !s.CheckAndRegister("identical text body") {
		t.Fatal("first submission rejected")
	}
	if s.CheckAndRegister("identical text body") {
		t.Fatal("duplicate accepted")
	}

	stats := s.Stats()
	if stats.ExactDuplicates != 1 || stats.NearDuplicates != 0 {
		t.Fatalf("duplicate not attributed to the exact stage: %+v", stats)
	}
	// Only the accepted document may be indexed.
	if stats.IndexedSketches != 1 {
		t.Fatalf("expected 1 indexed sketch, got %d", stats.IndexedSketches)
	}
}

func TestResetClearsState(t *testing.T) {
	t.Parallel()

	s := exactSession()
	if !s.CheckAndRegister("some text") {
		t.Fatal("first submission rejected")
	}
	s.Reset()
	if !s.CheckAndRegister("some text") {
		t.Fatal("submission rejected after reset")
	}
}

func TestDisabledSessionAllowsEverything(t *testing.T) {
	t.Parallel()

	s := NewSession(Options{})
	if !s.CheckAndRegister("same") || !s.CheckAndRegister("same") {
		t.Fatal("disabled session must pass every document")
	}
}
