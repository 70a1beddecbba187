package prodex

import "github.com/kailas-cloud/prodex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidInput            = domain.ErrInvalidInput
	ErrEngineFailure           = domain.ErrEngineFailure
	ErrProviderFailure         = domain.ErrProviderFailure
	ErrCompletionQuotaExceeded = domain.ErrCompletionQuotaExceeded
)
