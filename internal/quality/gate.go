// Package quality routes documents through a three-band risk gate and a
// cheap structural pre-filter.
package quality

import "fmt"

// Decision is the outcome of routing a risk score through the gate.
type Decision int

const (
	// Keep passes the document straight through.
	Keep Decision = iota
	// Review sends the document to the external judge.
	Review
	// Drop rejects the document without a judge call.
	Drop
)

func (d Decision) String() string {
	switch d {
	case Keep:
		return "keep"
	case Review:
		return "review"
	case Drop:
		return "drop"
	}
	return "unknown"
}

// Gate partitions risk scores into three bands. Scores below the keep
// threshold pass, scores at or above the judge threshold are dropped, and the
// grey zone in between goes to review.
type Gate struct {
	keep  float64
	judge float64
}

// NewGate builds a gate. The keep threshold must sit strictly below the judge
// threshold, otherwise the review band would be empty or inverted.
func NewGate(keepThreshold, judgeThreshold float64) (*Gate, error) {
	if keepThreshold < 0 || judgeThreshold > 1 {
		return nil, fmt.Errorf("thresholds out of range: keep=%f judge=%f", keepThreshold, judgeThreshold)
	}
	if keepThreshold >= judgeThreshold {
		return nil, fmt.Errorf("keep threshold %f must be below judge threshold %f", keepThreshold, judgeThreshold)
	}
	return &Gate{keep: keepThreshold, judge: judgeThreshold}, nil
}

// Route maps one risk score to a decision. Every score lands in exactly one
// band.
func (g *Gate) Route(score float64) Decision {
	switch {
	case score < g.keep:
		return Keep
	case score < g.judge:
		return Review
	default:
		return Drop
	}
}
