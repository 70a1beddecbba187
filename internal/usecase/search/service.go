// Package search implements the dual-strategy catalog search: a language-model ranking
// attempt under a deadline, with a deterministic keyword scorer as the fallback.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/prodex/internal/domain"
	"github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/search/constraint"
	"github.com/kailas-cloud/prodex/internal/domain/search/result"
	"github.com/kailas-cloud/prodex/internal/logger"
	"github.com/kailas-cloud/prodex/internal/metrics"
)

// NotConfiguredMessage is returned to the caller when no completion provider is set up.
const NotConfiguredMessage = "Using enhanced keyword search (AI provider not configured)"

// Service orchestrates one search per call. It holds no per-search state.
type Service struct {
	completer Completer
	timeout   time.Duration
	logger    *zap.Logger

	fallback func(query string, catalog []product.Product) []product.Product
}

// New creates a search service. A nil completer routes every search to the keyword scorer.
// A non-positive timeout selects the default completion deadline.
func New(completer Completer, timeout time.Duration, logger *zap.Logger) *Service {
	if timeout <= 0 {
		timeout = domain.DefaultCompletionConfig().Timeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		completer: completer,
		timeout:   timeout,
		logger:    logger,
		fallback:  Fallback,
	}
}

// Timeout returns the deadline applied to the completion call.
func (s *Service) Timeout() time.Duration { return s.timeout }

// AIEnabled reports whether a completion provider is configured.
func (s *Service) AIEnabled() bool { return s.completer != nil }

// Search ranks the catalog against the query.
// It fails only on invalid input or when the deterministic path itself fails;
// every completion problem is absorbed by falling back.
func (s *Service) Search(
	ctx context.Context, query string, catalog []product.Product,
) (result.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return result.SearchResult{}, fmt.Errorf("%w: query is required", domain.ErrInvalidInput)
	}
	if len(catalog) == 0 {
		return result.SearchResult{}, fmt.Errorf("%w: products are required", domain.ErrInvalidInput)
	}

	start := time.Now()
	searchID := uuid.NewString()
	log := logger.FromContextOr(ctx, s.logger).With(zap.String("search_id", searchID))

	if s.completer == nil {
		log.Info("Completion provider not configured, using keyword search",
			zap.Error(domain.ErrProviderUnavailable),
		)
		return s.runFallback(log, start, searchID, query, catalog, result.ReasonNotConfigured, NotConfiguredMessage)
	}

	products, err := s.searchAI(ctx, query, catalog)
	if err == nil {
		log.Debug("AI search completed",
			zap.Int("catalog_size", len(catalog)),
			zap.Int("results", len(products)),
		)
		s.observe(result.PathAI, result.ReasonNone, start, len(products))
		return result.New(searchID, query, products, result.PathAI, result.ReasonNone, ""), nil
	}

	reason := fallbackReason(err)
	log.Warn("AI search failed, using keyword search",
		zap.String("reason", reason),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(err),
	)
	return s.runFallback(log, start, searchID, query, catalog, reason, "")
}

// searchAI performs the single completion call under the configured deadline.
func (s *Service) searchAI(
	ctx context.Context, query string, catalog []product.Product,
) ([]product.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.completer.Complete(ctx, domain.CompletionRequest{
		System: SystemMessage,
		Prompt: BuildPrompt(query, catalog),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrProviderFailure, err)
	}
	domain.UsageFromContext(ctx).AddTokens(res.TotalTokens)

	reply := strings.TrimSpace(res.Text)
	if reply == "" {
		return nil, fmt.Errorf("%w: %w", domain.ErrProviderFailure, domain.ErrEmptyReply)
	}

	cs := constraint.Extract(query)
	products := admitted(&cs, Interpret(reply, catalog))
	if len(products) == 0 && !IsNoneReply(reply) {
		return nil, fmt.Errorf("%w: %w", domain.ErrProviderFailure, domain.ErrUnusableReply)
	}
	return products, nil
}

// admitted keeps the products that pass the query's hard filters, in order.
func admitted(cs *constraint.Set, products []product.Product) []product.Product {
	out := make([]product.Product, 0, len(products))
	for i := range products {
		if cs.Admits(&products[i]) {
			out = append(out, products[i])
		}
	}
	return out
}

func (s *Service) runFallback(
	log *zap.Logger, start time.Time,
	searchID, query string, catalog []product.Product, reason, message string,
) (result.SearchResult, error) {
	products, err := s.safeFallback(query, catalog)
	if err != nil {
		log.Error("Keyword search failed", zap.Error(err))
		metrics.SearchesTotal.WithLabelValues(string(result.PathFallback), "engine_failure").Inc()
		return result.SearchResult{}, err
	}

	s.observe(result.PathFallback, reason, start, len(products))
	return result.New(searchID, query, products, result.PathFallback, reason, message), nil
}

// safeFallback converts a panic in the keyword path into ErrEngineFailure.
func (s *Service) safeFallback(query string, catalog []product.Product) (products []product.Product, err error) {
	defer func() {
		if r := recover(); r != nil {
			products = nil
			err = fmt.Errorf("%w: %v", domain.ErrEngineFailure, r)
		}
	}()
	return s.fallback(query, catalog), nil
}

func (s *Service) observe(path result.Path, reason string, start time.Time, n int) {
	metrics.SearchesTotal.WithLabelValues(string(path), reason).Inc()
	metrics.SearchDuration.WithLabelValues(string(path)).Observe(time.Since(start).Seconds())
	metrics.SearchResultSize.WithLabelValues(string(path)).Observe(float64(n))
}

// fallbackReason classifies a failed AI attempt for logs and metrics.
func fallbackReason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return result.ReasonTimeout
	case errors.Is(err, domain.ErrCompletionQuotaExceeded):
		return result.ReasonQuota
	case errors.Is(err, domain.ErrEmptyReply):
		return result.ReasonEmptyReply
	case errors.Is(err, domain.ErrUnusableReply):
		return result.ReasonUnusableReply
	default:
		return result.ReasonProviderError
	}
}
