package domain

import "errors"

var (
	// ErrInvalidInput signals a missing query or catalog, or a malformed product.
	ErrInvalidInput = errors.New("invalid input")

	// ErrProviderUnavailable signals that no completion provider is configured.
	// Not a failure: the search routes to the deterministic path.
	ErrProviderUnavailable = errors.New("completion provider not configured")
	// ErrProviderFailure signals a completion provider timeout, transport fault, or unusable reply.
	ErrProviderFailure = errors.New("completion provider error")
	// ErrCompletionQuotaExceeded signals an exhausted completion token budget.
	ErrCompletionQuotaExceeded = errors.New("completion quota exceeded")
	// ErrEmptyReply signals a completion with no text.
	ErrEmptyReply = errors.New("empty completion reply")
	// ErrUnusableReply signals a model reply that could not be mapped onto the catalog.
	ErrUnusableReply = errors.New("unusable completion reply")

	// ErrEngineFailure signals a fault inside the deterministic search path.
	ErrEngineFailure = errors.New("search engine failure")
)
