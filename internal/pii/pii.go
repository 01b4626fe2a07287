package pii

import (
	"fmt"
	"regexp"
)

// Canary is appended to selected documents so post-training probes can detect
// whether the model memorized verbatim pipeline output.
const Canary = "ZXQJ_CANARY_492837"

// DefaultReplacement substitutes redacted spans.
const DefaultReplacement = "[REDACTED]"

// DefaultPatterns covers the identifier formats the pipeline screens for:
// national ID numbers, phone numbers, email addresses, payment card numbers,
// and Turkish IBANs.
var DefaultPatterns = []string{
	`\b\d{11}\b`,
	`\b\d{10}\b`,
	`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`,
	`\b\d{4}[-\s]?\d{4}[-\s]?\d{4}[-\s]?\d{4}\b`,
	`\bTR\d{24}\b`,
}

// Detector matches personally identifying information against a fixed
// pattern list.
type Detector struct {
	patterns []*regexp.Regexp
}

// New compiles the given patterns case-insensitively. An empty list falls
// back to DefaultPatterns.
func New(patterns []string) (*Detector, error) {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}

	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := regexp.Compile(`(?i)` + pattern)
		if err != nil {
			return nil, fmt.Errorf("compile PII pattern %q: %w", pattern, err)
		}
		compiled = append(compiled, re)
	}
	return &Detector{patterns: compiled}, nil
}

// Contains reports whether the text matches any PII pattern.
func (d *Detector) Contains(text string) bool {
	if d == nil {
		return false
	}
	for _, re := range d.patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// Redact replaces every PII match with the replacement string.
func (d *Detector) Redact(text, replacement string) string {
	if d == nil {
		return text
	}
	if replacement == "" {
		replacement = DefaultReplacement
	}
	for _, re := range d.patterns {
		text = re.ReplaceAllString(text, replacement)
	}
	return text
}

// AppendCanary tags a document with the canary marker.
func AppendCanary(text string) string {
	return text + "\n" + Canary
}
