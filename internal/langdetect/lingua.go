package langdetect

import (
	"strings"
	"sync"
	"unicode"

	lingua "github.com/pemistahl/lingua-go"

	"horse.fit/corpus/internal/language"
)

// Sample length matches what the classifier needs for a stable prediction;
// longer inputs only add latency.
const maxSampleRunes = 1000

// Classifier predicts the language of a text sample.
type Classifier interface {
	Classify(text string) (code string, confidence float64)
}

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

// Lingua is a Classifier backed by the lingua-go statistical detector.
// The underlying models are loaded once per process.
type Lingua struct{}

func NewLingua() *Lingua {
	return &Lingua{}
}

// Classify returns the ISO 639-1 code and confidence for the text sample.
// An empty code means the language could not be determined.
func (l *Lingua) Classify(text string) (string, float64) {
	sample := sampleText(text)
	if sample == "" {
		return "", 0
	}

	letterCount := 0
	for _, r := range sample {
		if unicode.IsLetter(r) {
			letterCount++
		}
	}
	if letterCount < 6 {
		return "", 0
	}

	detected, exists := getDetector().DetectLanguageOf(sample)
	if !exists {
		return "", 0
	}

	code := language.NormalizeCode(detected.IsoCode639_1().String())
	if len(code) != 2 {
		return "", 0
	}

	confidence := getDetector().ComputeLanguageConfidence(sample, detected)
	return code, confidence
}

func sampleText(text string) string {
	sample := strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
	runes := []rune(sample)
	if len(runes) > maxSampleRunes {
		sample = string(runes[:maxSampleRunes])
	}
	return sample
}

func getDetector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			WithPreloadedLanguageModels().
			Build()
	})
	return detector
}
