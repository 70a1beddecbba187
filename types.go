package prodex

import "context"

// Product is a catalog item.
type Product struct {
	ID          int
	Title       string
	Price       float64
	Category    string
	Description string
	Rating      *float64 // nil when unrated
	Tags        []string
}

// Path names the strategy that produced a result.
type Path string

// Search paths.
const (
	PathAI       Path = "ai"
	PathFallback Path = "fallback"
)

// Result is the ranked outcome of one search.
type Result struct {
	SearchID       string
	Query          string
	Products       []Product
	Path           Path
	Fallback       bool
	FallbackReason string // empty on the AI path
	Message        string
}

// Completer sends a prompt to a language model. Implement it to plug in any provider.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionResult, error)
}

// CompletionRequest is a single-turn chat request.
type CompletionRequest struct {
	System string
	Prompt string
}

// CompletionResult carries the reply text and token usage.
type CompletionResult struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Usage is a point-in-time view of the token budget.
type Usage struct {
	Provider         string
	DailyUsed        int64
	DailyRemaining   int64 // -1 when unlimited
	MonthlyUsed      int64
	MonthlyRemaining int64 // -1 when unlimited
}
