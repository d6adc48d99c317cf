// Package llm defines the language model client used for candidate
// validation and an OpenAI-compatible implementation.
package llm

import "context"

// Client is a natural-language inference backend. Every call is
// independently fallible and honors ctx cancellation.
type Client interface {
	// IsAvailable reports whether the backend can currently serve requests.
	IsAvailable(ctx context.Context) bool

	// Infer returns the completion for a single prompt.
	Infer(ctx context.Context, prompt string, opts InferOptions) (string, error)

	// InferBatch runs several prompts. The result has one entry per prompt;
	// failed prompts leave an empty string and contribute to the returned
	// error.
	InferBatch(ctx context.Context, prompts []string, opts InferOptions) ([]string, error)
}

// InferOptions tunes a single inference call.
type InferOptions struct {
	System      string   // System prompt; the client default is used when empty
	Temperature *float32 // nil keeps the backend default
	MaxTokens   int      // 0 keeps the backend default
	JSON        bool     // Ask the backend for a JSON object response
}
