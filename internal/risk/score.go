// Package risk scores documents on additive spam and safety heuristics. The
// score feeds a three-band quality gate: low scores pass without further
// checks, mid scores go to an external judge, high scores are dropped.
package risk

// Scorer evaluates a fixed set of signals against a document. The zero value
// is not usable; construct one with NewScorer. Scorer is safe for concurrent
// use, all state is read-only after construction.
type Scorer struct {
	signals []Signal
}

func NewScorer() *Scorer {
	return &Scorer{signals: Signals()}
}

// Score sums every signal's contribution and clamps the result to [0, 1].
func (s *Scorer) Score(text string) float64 {
	if s == nil {
		return 0
	}
	total := 0.0
	for _, sig := range s.signals {
		total += sig.Score(text)
	}
	return min(total, 1.0)
}

// Breakdown reports each signal's individual contribution, keyed by signal
// name. Zero-score signals are omitted.
func (s *Scorer) Breakdown(text string) map[string]float64 {
	if s == nil {
		return nil
	}
	out := make(map[string]float64)
	for _, sig := range s.signals {
		if v := sig.Score(text); v > 0 {
			out[sig.Name] = v
		}
	}
	return out
}
