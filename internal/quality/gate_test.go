package quality

import "testing"

func TestGateBands(t *testing.T) {
	t.Parallel()

	g, err := NewGate(0.2, 0.4)
	if err != nil {
		t.Fatalf("NewGate: %v", err)
	}

	cases := []struct {
		score float64
		want  Decision
	}{
		{0.0, Keep},
		{0.19, Keep},
		{0.2, Review},
		{0.39, Review},
		{0.4, Drop},
		{1.0, Drop},
	}
	for _, tc := range cases {
		if got := g.Route(tc.score); got != tc.want {
			t.Fatalf("Route(%f) = %s, want %s", tc.score, got, tc.want)
		}
	}
}

func TestGateEveryScoreLandsInOneBand(t *testing.T) {
	t.Parallel()

	g, err := NewGate(0.2, 0.4)
	if err != nil {
		t.Fatalf("NewGate: %v", err)
	}
	for i := 0; i <= 100; i++ {
		score := float64(i) / 100
		switch g.Route(score) {
		case Keep, Review, Drop:
		default:
			t.Fatalf("Route(%f) returned an unknown decision", score)
		}
	}
}

func TestGateRejectsInvertedThresholds(t *testing.T) {
	t.Parallel()

	if _, err := NewGate(0.4, 0.2); err == nil {
		t.Fatal("inverted thresholds accepted")
	}
	if _, err := NewGate(0.3, 0.3); err == nil {
		t.Fatal("equal thresholds accepted")
	}
	if _, err := NewGate(-0.1, 0.4); err == nil {
		t.Fatal("negative keep threshold accepted")
	}
}

func TestPrefilter(t *testing.T) {
	t.Parallel()

	p := NewPrefilter(PrefilterOptions{
		MinWordCount:       10,
		MinUniqueWordRatio: 0.3,
		MinSentenceCount:   3,
	})

	cases := []struct {
		name   string
		text   string
		ok     bool
		reason string
	}{
		{
			name:   "too short",
			text:   "only five words in here.",
			ok:     false,
			reason: "too_few_words",
		},
		{
			name:   "repetitive",
			text:   "spam spam spam spam spam spam spam spam spam spam spam spam.",
			ok:     false,
			reason: "low_word_diversity",
		},
		{
			name:   "no sentences",
			text:   "ten reasonably distinct words without a single ending mark anywhere at all",
			ok:     false,
			reason: "too_few_sentences",
		},
		{
			name: "good",
			text: "First sentence sets things up. Second one adds more detail. Third wraps the short paragraph up.",
			ok:   true,
		},
	}
	for _, tc := range cases {
		ok, reason := p.Check(tc.text)
		if ok != tc.ok {
			t.Fatalf("%s: Check = %v, want %v", tc.name, ok, tc.ok)
		}
		if reason != tc.reason {
			t.Fatalf("%s: reason %q, want %q", tc.name, reason, tc.reason)
		}
	}
}
