package search

import (
	"context"

	"github.com/kailas-cloud/prodex/internal/domain"
)

// Completer sends a prompt to the language model and returns its reply.
type Completer interface {
	Complete(ctx context.Context, req domain.CompletionRequest) (domain.CompletionResult, error)
}
