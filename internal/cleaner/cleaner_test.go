package cleaner

import (
	"errors"
	"strings"
	"testing"
)

func testCleaner() *Cleaner {
	return New(Options{
		MinTextLength: 200,
		MaxTextLength: 50000,
		MaxLinkCount:  3,
	})
}

func TestCleanCollapsesWhitespace(t *testing.T) {
	t.Parallel()

	c := testCleaner()
	if got := c.Clean("a  b"); got != "a b" {
		t.Fatalf("unexpected cleaned text: %q", got)
	}
	if got := c.Clean("  line one\n\n\tline two  "); got != "line one line two" {
		t.Fatalf("unexpected cleaned text: %q", got)
	}
}

func TestCleanStripsTags(t *testing.T) {
	t.Parallel()

	c := testCleaner()
	got := c.Clean("before <b>bold</b> after")
	if got != "before bold after" {
		t.Fatalf("unexpected cleaned text: %q", got)
	}
}

func TestCheckRejectsShortText(t *testing.T) {
	t.Parallel()

	c := testCleaner()
	short := strings.Repeat("a", 50)
	if err := c.Check(short); !errors.Is(err, ErrTooShort) {
		t.Fatalf("expected ErrTooShort, got %v", err)
	}
}

func TestCheckRejectsOverlongText(t *testing.T) {
	t.Parallel()

	c := testCleaner()
	long := strings.Repeat("a", 50001)
	if err := c.Check(long); !errors.Is(err, ErrTooLong) {
		t.Fatalf("expected ErrTooLong, got %v", err)
	}
}

func TestCheckRejectsLinkSpam(t *testing.T) {
	t.Parallel()

	c := testCleaner()
	base := strings.Repeat("word ", 60)
	spam := base + "http://a http://b http://c http://d"
	if err := c.Check(spam); !errors.Is(err, ErrTooManyLinks) {
		t.Fatalf("expected ErrTooManyLinks, got %v", err)
	}
}

func TestCleanAndCheckPassesNormalText(t *testing.T) {
	t.Parallel()

	c := testCleaner()
	text := strings.Repeat("a perfectly ordinary sentence. ", 20)
	cleaned, err := c.CleanAndCheck(text)
	if err != nil {
		t.Fatalf("unexpected rejection: %v", err)
	}
	if strings.Contains(cleaned, "  ") {
		t.Fatalf("cleaned text still has whitespace runs: %q", cleaned)
	}
}
