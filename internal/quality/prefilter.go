package quality

import "strings"

// PrefilterOptions bounds the structural pre-filter.
type PrefilterOptions struct {
	MinWordCount       int
	MinUniqueWordRatio float64
	MinSentenceCount   int
}

// Prefilter rejects structurally degenerate text before any scoring work:
// too few words, too little word diversity, or too few sentence terminators.
type Prefilter struct {
	opts PrefilterOptions
}

func NewPrefilter(opts PrefilterOptions) *Prefilter {
	return &Prefilter{opts: opts}
}

// Check returns false plus a short reason when text fails a structural bound.
func (p *Prefilter) Check(text string) (bool, string) {
	if p == nil {
		return true, ""
	}

	words := strings.Fields(text)
	if len(words) < p.opts.MinWordCount {
		return false, "too_few_words"
	}

	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[w] = struct{}{}
	}
	if float64(len(unique))/float64(len(words)) < p.opts.MinUniqueWordRatio {
		return false, "low_word_diversity"
	}

	sentences := strings.Count(text, ".") + strings.Count(text, "!") + strings.Count(text, "?")
	if sentences < p.opts.MinSentenceCount {
		return false, "too_few_sentences"
	}

	return true, ""
}
