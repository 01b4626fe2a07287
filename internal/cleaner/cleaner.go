package cleaner

import (
	"bytes"
	"errors"
	"net/url"
	"regexp"
	"strings"

	readability "codeberg.org/readeck/go-readability/v2"
)

var (
	ErrTooShort     = errors.New("text below minimum length")
	ErrTooLong      = errors.New("text above maximum length")
	ErrTooManyLinks = errors.New("text contains too many links")
)

// Options controls degenerate-document rejection.
type Options struct {
	MinTextLength int
	MaxTextLength int
	MaxLinkCount  int
}

// Cleaner normalizes raw text and rejects degenerate documents.
type Cleaner struct {
	opts Options
}

func New(opts Options) *Cleaner {
	return &Cleaner{opts: opts}
}

var (
	tagPattern = regexp.MustCompile(`<[^>]+>`)
	// Hints that the payload is a full markup document worth a readability pass
	// rather than plain text with stray angle brackets.
	markupHint = regexp.MustCompile(`(?i)<(!doctype|html|head|body|article|p|div|br|span|table|ul|ol|li|h[1-6])[\s>/]`)

	placeholderURL = mustParseURL("https://corpus.invalid/")
)

// Clean strips markup and collapses all whitespace runs to single spaces.
// The result is the normalized form every later stage (hashing included)
// operates on.
func (c *Cleaner) Clean(text string) string {
	if markupHint.MatchString(text) {
		if extracted := extractReadable(text); extracted != "" {
			text = extracted
		}
	}
	text = tagPattern.ReplaceAllString(text, " ")
	return strings.Join(strings.Fields(text), " ")
}

// Check validates a cleaned document against the length and link-spam limits.
func (c *Cleaner) Check(text string) error {
	if c == nil {
		return errors.New("cleaner is nil")
	}
	if len(text) < c.opts.MinTextLength {
		return ErrTooShort
	}
	if c.opts.MaxTextLength > 0 && len(text) > c.opts.MaxTextLength {
		return ErrTooLong
	}
	if strings.Count(text, "http") > c.opts.MaxLinkCount {
		return ErrTooManyLinks
	}
	return nil
}

// CleanAndCheck combines normalization and filtering in one step.
func (c *Cleaner) CleanAndCheck(text string) (string, error) {
	cleaned := c.Clean(text)
	if err := c.Check(cleaned); err != nil {
		return "", err
	}
	return cleaned, nil
}

func extractReadable(raw string) string {
	article, err := readability.FromReader(strings.NewReader(raw), placeholderURL)
	if err != nil {
		return ""
	}
	var rendered bytes.Buffer
	if err := article.RenderText(&rendered); err != nil {
		return ""
	}
	return rendered.String()
}

func mustParseURL(raw string) *url.URL {
	parsed, err := url.Parse(raw)
	if err != nil {
		panic(err)
	}
	return parsed
}
