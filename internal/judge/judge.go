// Package judge decides the fate of grey-zone documents that the risk gate
// could not keep or drop on its own.
package judge

import "context"

// Action is a judge's verdict on one document.
type Action string

const (
	ActionKeep Action = "KEEP"
	ActionDrop Action = "DROP"
)

// Verdict is the outcome of judging one document. Text carries the document
// to keep, which may be a lightly cleaned variant of the input.
type Verdict struct {
	Action Action
	Text   string
	Reason string
}

// Judge reviews a grey-zone document. Implementations must treat an error as
// "no verdict"; callers drop the document when judging fails.
type Judge interface {
	Name() string
	Judge(ctx context.Context, text string, riskScore float64) (Verdict, error)
}
