// Package result defines the outcome of a catalog search.
package result

import "github.com/kailas-cloud/prodex/internal/domain/product"

// Path identifies which strategy produced the result.
type Path string

// Search paths.
const (
	PathAI       Path = "ai"
	PathFallback Path = "fallback"
)

// Fallback reasons.
const (
	ReasonNone          = ""
	ReasonNotConfigured = "not_configured"
	ReasonTimeout       = "timeout"
	ReasonProviderError = "provider_error"
	ReasonQuota         = "quota_exceeded"
	ReasonEmptyReply    = "empty_reply"
	ReasonUnusableReply = "unusable_reply"
)

// SearchResult is the ordered product list returned for one query. Scores are not exposed.
type SearchResult struct {
	searchID string
	query    string
	products []product.Product
	path     Path
	reason   string
	message  string
}

// New creates a search result.
func New(searchID, query string, products []product.Product, path Path, reason, message string) SearchResult {
	return SearchResult{
		searchID: searchID,
		query:    query,
		products: products,
		path:     path,
		reason:   reason,
		message:  message,
	}
}

// SearchID returns the per-call identifier used for log correlation.
func (r *SearchResult) SearchID() string { return r.searchID }

// Query returns the query as submitted.
func (r *SearchResult) Query() string { return r.query }

// Products returns the matching products in ranked order.
func (r *SearchResult) Products() []product.Product { return r.products }

// Count returns the number of matching products.
func (r *SearchResult) Count() int { return len(r.products) }

// Path returns the strategy that produced the result.
func (r *SearchResult) Path() Path { return r.path }

// Fallback reports whether the deterministic scorer produced the result.
func (r *SearchResult) Fallback() bool { return r.path == PathFallback }

// FallbackReason returns why the AI path was abandoned, empty on the AI path.
func (r *SearchResult) FallbackReason() string { return r.reason }

// Message returns an optional informational message for the caller.
func (r *SearchResult) Message() string { return r.message }
