// Package llm wraps the external text-generation collaborator used for AI
// cell enrichment.
package llm

import "context"

// Request carries everything needed to produce one cell value: the row's
// context (non-AI column label → value), the column's prompt, and the
// output type constraint.
type Request struct {
	Context    map[string]string
	Prompt     string
	OutputType string
}

// TextGenerator is the interface any enrichment backend implements.
// One call per row; the returned string is written verbatim as the cell
// value.
type TextGenerator interface {
	Generate(ctx context.Context, req Request) (string, error)
}
