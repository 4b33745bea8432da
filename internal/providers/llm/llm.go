package llm

import "context"

// Provider is the single-shot text generation surface the evaluation engine
// needs. Implementations wrap a concrete Gemini backend.
type Provider interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	Close() error
}
