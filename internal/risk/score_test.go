package risk

import "testing"

const cleanParagraph = "The research group spent the better part of last spring measuring " +
	"how river sediment moves through the delta after heavy rainfall. Early results " +
	"suggest that coarse material settles within the first few kilometres, while finer " +
	"particles travel much further than previous models predicted. The team plans to " +
	"repeat the survey next year along the southern channel, and to compare the " +
	"readings against satellite imagery collected during the same period. A full " +
	"report is expected once the laboratory analysis of the core samples has finished."

func TestScoreCleanParagraphStaysLow(t *testing.T) {
	t.Parallel()

	got := NewScorer().Score(cleanParagraph)
	if got >= 0.1 {
		t.Fatalf("clean paragraph scored %f, want < 0.1", got)
	}
}

func TestScoreSpamCrossesJudgeThreshold(t *testing.T) {
	t.Parallel()

	got := NewScorer().Score("aaaa!!!! buy now buy now buy now")
	if got < 0.4 {
		t.Fatalf("spam scored %f, want >= 0.4", got)
	}
}

func TestScoreIsClampedToOne(t *testing.T) {
	t.Parallel()

	// Stacks PII, toxic, links, repetition and short text well past 1.0.
	text := "fuck porn http://a http://b aaaa!!!! test@example.com 05551234567 spam spam spam spam spam"
	if got := NewScorer().Score(text); got != 1.0 {
		t.Fatalf("stacked signals scored %f, want 1.0", got)
	}
}

func TestScoreEmptyText(t *testing.T) {
	t.Parallel()

	// Empty input still counts as short text, nothing else fires.
	if got := NewScorer().Score(""); got != 0.2 {
		t.Fatalf("empty text scored %f, want 0.2", got)
	}
}

func TestScoreToxicDominates(t *testing.T) {
	t.Parallel()

	s := NewScorer()
	base := cleanParagraph
	toxic := base + " orospu"
	if s.Score(toxic) < 0.6 {
		t.Fatalf("toxic text scored %f, want >= 0.6", s.Score(toxic))
	}
	if s.Score(toxic) <= s.Score(base) {
		t.Fatal("adding a toxic term must not lower the score")
	}
}

func TestBreakdownNamesFiringSignals(t *testing.T) {
	t.Parallel()

	got := NewScorer().Breakdown("aaaa!!!! buy now buy now buy now")
	for _, name := range []string{"short_text", "repeated_chars"} {
		if _, ok := got[name]; !ok {
			t.Fatalf("breakdown missing %q: %v", name, got)
		}
	}
	if _, ok := got["toxic"]; ok {
		t.Fatalf("toxic signal fired unexpectedly: %v", got)
	}
}

func TestPIISignalPerPattern(t *testing.T) {
	t.Parallel()

	if got := scorePII("reach me at someone@example.com or 05551234567"); got != 1.0 {
		t.Fatalf("two pii hits scored %f, want 1.0", got)
	}
	if got := scorePII("no personal data here"); got != 0 {
		t.Fatalf("clean text scored %f, want 0", got)
	}
}

func TestRepeatedCharRuns(t *testing.T) {
	t.Parallel()

	cases := []struct {
		text string
		want int
	}{
		{"normal text", 0},
		{"aaaa", 1},
		{"aaaa!!!!", 2},
		{"aaaaaaaa", 1},
		{"aaaa bbbb cccc", 3},
	}
	for _, tc := range cases {
		if got := countRepeatRuns(tc.text); got != tc.want {
			t.Fatalf("countRepeatRuns(%q) = %d, want %d", tc.text, got, tc.want)
		}
	}
}

func TestEcommerceSignal(t *testing.T) {
	t.Parallel()

	listing := "Satın al! Sepete ekle. Stokta, indirim, kampanya. 19,99 TL 29,99 TL 39,99 TL ücretsiz kargo"
	if got := scoreEcommerce(listing); got != 0.5 {
		t.Fatalf("product listing scored %f, want capped 0.5", got)
	}
}

func TestMixedScriptSignal(t *testing.T) {
	t.Parallel()

	if got := scoreMixedScript("Türkçe metin şöyle görünür ve güvenlidir"); got != 0 {
		t.Fatalf("Turkish text scored %f, want 0", got)
	}
	if got := scoreMixedScript("这是一段中文文本内容测试"); got != 0.5 {
		t.Fatalf("CJK text scored %f, want capped 0.5", got)
	}
}
