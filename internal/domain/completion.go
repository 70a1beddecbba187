package domain

import "context"

// Completer is the shared text-completion contract between layers.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionResult, error)
}

// HealthChecker verifies completion provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// CompletionRequest is a single-turn chat request: an optional system message and the user prompt.
type CompletionRequest struct {
	System string
	Prompt string
}

// CompletionResult carries the reply text and token usage through the decorator chain.
type CompletionResult struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
