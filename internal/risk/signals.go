package risk

import (
	"strings"
	"unicode"
)

// A Signal scores one independent risk dimension of a document. Scores are
// additive across signals; each signal caps its own contribution.
type Signal struct {
	Name  string
	Score func(text string) float64
}

// Signals returns the full signal set in evaluation order.
func Signals() []Signal {
	return []Signal{
		{Name: "pii", Score: scorePII},
		{Name: "boilerplate", Score: scoreBoilerplate},
		{Name: "toxic", Score: scoreToxic},
		{Name: "short_text", Score: scoreShortText},
		{Name: "link_spam", Score: scoreLinkSpam},
		{Name: "seo", Score: scoreSEO},
		{Name: "repetition", Score: scoreWordRepetition},
		{Name: "cjk", Score: scoreCJK},
		{Name: "mixed_script", Score: scoreMixedScript},
		{Name: "ecommerce", Score: scoreEcommerce},
		{Name: "astrology", Score: scoreAstrology},
		{Name: "forum_spam", Score: scoreForumSpam},
		{Name: "repeated_chars", Score: scoreRepeatedChars},
		{Name: "social_media", Score: scoreSocialMedia},
		{Name: "special_chars", Score: scoreSpecialChars},
		{Name: "low_density", Score: scoreLowDensity},
	}
}

func countContains(lower string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			n++
		}
	}
	return n
}

func scorePII(text string) float64 {
	score := 0.0
	for _, re := range piiPatterns {
		if re.MatchString(text) {
			score += 0.5
		}
	}
	return score
}

func scoreBoilerplate(text string) float64 {
	if countContains(strings.ToLower(text), boilerplateKeywords) > 0 {
		return 0.3
	}
	return 0
}

func scoreToxic(text string) float64 {
	if countContains(strings.ToLower(text), toxicKeywords) > 0 {
		return 0.6
	}
	return 0
}

func scoreShortText(text string) float64 {
	if len(text) < 80 {
		return 0.2
	}
	return 0
}

func scoreLinkSpam(text string) float64 {
	if strings.Count(strings.ToLower(text), "http") >= 2 {
		return 0.3
	}
	return 0
}

func scoreSEO(text string) float64 {
	t := strings.ToLower(text)
	score := 0.0

	switch matches := countContains(t, seoKeywords); {
	case matches >= 3:
		score += 0.3
	case matches >= 2:
		score += 0.15
	}

	switch links := strings.Count(t, "http") + strings.Count(t, "www."); {
	case links >= 5:
		score += 0.4
	case links >= 3:
		score += 0.2
	}

	// Keyword stuffing: one word (longer than three characters) carrying
	// more than 10% of the total word count.
	words := strings.Fields(t)
	if len(words) > 0 {
		freq := make(map[string]int)
		maxFreq := 0
		for _, w := range words {
			if len(w) <= 3 {
				continue
			}
			freq[w]++
			if freq[w] > maxFreq {
				maxFreq = freq[w]
			}
		}
		if float64(maxFreq) >= float64(len(words))*0.1 {
			score += 0.3
		}
	}

	return min(score, 0.4)
}

func scoreWordRepetition(text string) float64 {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return 0
	}
	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[w] = struct{}{}
	}
	if float64(len(unique))/float64(len(words)) < 0.4 {
		return 0.3
	}
	return 0
}

func isCJK(r rune) bool {
	return (r >= 0x4E00 && r <= 0x9FFF) || (r >= 0x3400 && r <= 0x4DBF)
}

func cjkRatio(text string) float64 {
	cjk, total := 0, 0
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if isCJK(r) {
			cjk++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(cjk) / float64(total)
}

func scoreCJK(text string) float64 {
	switch ratio := cjkRatio(text); {
	case ratio > 0.1:
		return 0.5
	case ratio > 0.05:
		return 0.3
	}
	return 0
}

func isTurkishLetter(r rune) bool {
	switch unicode.ToLower(r) {
	case 'ş', 'ğ', 'ü', 'ö', 'ç', 'ı', 'i':
		return true
	}
	return false
}

func isLatinRange(r rune) bool {
	return r <= 0x024F || // Basic Latin through Latin Extended-B
		(r >= 0x1E00 && r <= 0x1EFF) || // Latin Extended Additional
		(r >= 0x0300 && r <= 0x036F) // combining diacritics
}

func scoreMixedScript(text string) float64 {
	score := 0.0

	switch ratio := cjkRatio(text); {
	case ratio > 0.1:
		score += 0.5
	case ratio > 0.05:
		score += 0.3
	}

	nonLatin, total := 0, 0
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if !isLatinRange(r) && !isTurkishLetter(r) {
			nonLatin++
		}
	}
	if total > 0 {
		switch ratio := float64(nonLatin) / float64(total); {
		case ratio > 0.15:
			score += 0.3
		case ratio > 0.10:
			score += 0.2
		}
	}

	return min(score, 0.5)
}

func scoreEcommerce(text string) float64 {
	t := strings.ToLower(text)
	score := 0.0

	switch matches := countContains(t, ecommerceKeywords); {
	case matches >= 5:
		score += 0.4
	case matches >= 3:
		score += 0.2
	}

	if countContains(t, sizeChartKeywords) > 0 {
		score += 0.3
	}

	switch prices := len(pricePattern.FindAllString(t, -1)); {
	case prices >= 3:
		score += 0.3
	case prices >= 2:
		score += 0.15
	}

	if countContains(t, shippingKeywords) > 0 &&
		(strings.Contains(t, "ücretsiz") || strings.Contains(t, "free")) {
		score += 0.2
	}

	return min(score, 0.5)
}

func scoreAstrology(text string) float64 {
	switch matches := countContains(strings.ToLower(text), astrologyKeywords); {
	case matches >= 2:
		return 0.4
	case matches >= 1:
		return 0.2
	}
	return 0
}

func scoreForumSpam(text string) float64 {
	t := strings.ToLower(text)
	score := 0.0

	switch matches := countContains(t, forumSpamKeywords); {
	case matches >= 3:
		score += 0.3
	case matches >= 2:
		score += 0.15
	}

	if len(strings.Fields(t)) < 15 && countContains(t, shortThanksKeywords) > 0 {
		score += 0.3
	}

	return min(score, 0.3)
}

// countRepeatRuns counts maximal runs of four or more identical runes, the
// shape of filler like "aaaa" or "!!!!".
func countRepeatRuns(text string) int {
	runs := 0
	var prev rune
	length := 0
	for _, r := range text {
		if r == prev {
			length++
			if length == 4 {
				runs++
			}
			continue
		}
		prev = r
		length = 1
	}
	return runs
}

func scoreRepeatedChars(text string) float64 {
	switch runs := countRepeatRuns(text); {
	case runs >= 3:
		return 0.4
	case runs >= 2:
		return 0.2
	case runs >= 1:
		return 0.1
	}
	return 0
}

func scoreSocialMedia(text string) float64 {
	score := 0.0

	switch hashtags := strings.Count(text, "#"); {
	case hashtags >= 5:
		score += 0.4
	case hashtags >= 3:
		score += 0.2
	}

	switch mentions := strings.Count(text, "@"); {
	case mentions >= 5:
		score += 0.3
	case mentions >= 3:
		score += 0.15
	}

	if countContains(strings.ToLower(text), socialMediaKeywords) >= 3 {
		score += 0.2
	}

	return min(score, 0.4)
}

func isPlainPunct(r rune) bool {
	switch r {
	case '.', ',', '!', '?', ';', ':', '-', '_', '(', ')', '[', ']', '{', '}', '"', '\'':
		return true
	}
	return false
}

func scoreSpecialChars(text string) float64 {
	special, total := 0, 0
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if r <= 0x017F || isTurkishLetter(r) || isPlainPunct(r) {
			continue
		}
		special++
	}
	if total == 0 {
		return 0
	}
	switch ratio := float64(special) / float64(total); {
	case ratio > 0.15:
		return 0.3
	case ratio > 0.10:
		return 0.2
	}
	return 0
}

func scoreLowDensity(text string) float64 {
	total := len(text)
	if total == 0 {
		return 0
	}
	score := 0.0

	whitespace := strings.Count(text, " ") + strings.Count(text, "\n") + strings.Count(text, "\t")
	if float64(whitespace)/float64(total) > 0.3 {
		score += 0.2
	}

	punct := 0
	for _, p := range []string{".", ",", "!", "?", ";", ":"} {
		punct += strings.Count(text, p)
	}
	if float64(punct)/float64(total) > 0.2 {
		score += 0.2
	}

	return min(score, 0.3)
}
