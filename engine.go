package prodex

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/prodex/internal/domain"
	"github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/search/result"
	openaiTransport "github.com/kailas-cloud/prodex/internal/transport/openai"
	completionuc "github.com/kailas-cloud/prodex/internal/usecase/completion"
	searchuc "github.com/kailas-cloud/prodex/internal/usecase/search"
)

const (
	defaultProvider = "openrouter"
	defaultBaseURL  = "https://openrouter.ai/api/v1"
	customProvider  = "custom"
)

// searchUseCase is the internal contract, swappable in tests.
type searchUseCase interface {
	Search(ctx context.Context, query string, catalog []product.Product) (result.SearchResult, error)
}

// Engine is the prodex entry point. It is safe for concurrent use.
type Engine struct {
	svc    searchUseCase
	budget *completionuc.BudgetTracker
	obs    *observer
}

// New creates an Engine. It makes no network calls.
func New(opts ...Option) (*Engine, error) {
	cfg := &engineConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	inner, provider, model := buildCompleter(cfg, obs)

	// Pass a nil interface (not a typed nil pointer) when no provider is configured.
	var completer searchuc.Completer
	var budget *completionuc.BudgetTracker
	if inner != nil {
		budget = completionuc.NewBudgetTracker(
			provider, cfg.dailyTokens, cfg.monthlyTokens, completionuc.BudgetActionReject, obs.logger,
		)
		completer = completionuc.NewInstrumentedCompleter(inner, provider, model, budget, obs.logger)
	}

	return &Engine{
		svc:    searchuc.New(completer, cfg.timeout, obs.logger),
		budget: budget,
		obs:    obs,
	}, nil
}

func buildCompleter(cfg *engineConfig, obs *observer) (inner domain.Completer, provider, model string) {
	switch {
	case cfg.completer != nil:
		return &completerAdapter{inner: cfg.completer}, customProvider, customProvider
	case cfg.openai != nil:
		def := domain.DefaultCompletionConfig()
		baseURL, modelName := cfg.openai.baseURL, cfg.openai.model
		if baseURL == "" {
			baseURL = defaultBaseURL
		}
		if modelName == "" {
			modelName = def.Model
		}
		return openaiTransport.NewCompleter(&openaiTransport.Config{
			APIKey:      cfg.openai.apiKey,
			BaseURL:     baseURL,
			Model:       modelName,
			Temperature: def.Temperature,
			TopP:        def.TopP,
			MaxTokens:   def.MaxTokens,
			Provider:    defaultProvider,
			Logger:      obs.logger,
		}), defaultProvider, modelName
	default:
		return nil, "", ""
	}
}

// Search ranks catalog against query.
// The error is non-nil only for invalid input (ErrInvalidInput) or when the
// keyword path itself fails (ErrEngineFailure); provider trouble is absorbed.
func (e *Engine) Search(ctx context.Context, query string, catalog []Product) (res Result, err error) {
	start := time.Now()
	defer func() { e.obs.observe(res.Path, start, err) }()

	items := make([]product.Product, len(catalog))
	for i := range catalog {
		p := &catalog[i]
		items[i], err = product.New(p.ID, p.Title, p.Price, p.Category, p.Description, p.Rating, p.Tags)
		if err != nil {
			return Result{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
	}

	sr, err := e.svc.Search(ctx, query, items)
	if err != nil {
		return Result{}, fmt.Errorf("search: %w", err)
	}
	return resultFromDomain(&sr), nil
}

// AIEnabled reports whether a language-model provider is configured.
func (e *Engine) AIEnabled() bool { return e.budget != nil }

// Usage reports the tokens spent by this engine. Zero value when no provider is configured.
func (e *Engine) Usage() Usage {
	if e.budget == nil {
		return Usage{DailyRemaining: -1, MonthlyRemaining: -1}
	}
	daily, monthly := e.budget.Status()
	return Usage{
		Provider:         e.budget.Provider(),
		DailyUsed:        daily.Used,
		DailyRemaining:   daily.Remaining,
		MonthlyUsed:      monthly.Used,
		MonthlyRemaining: monthly.Remaining,
	}
}

func resultFromDomain(sr *result.SearchResult) Result {
	items := sr.Products()
	products := make([]Product, len(items))
	for i := range items {
		products[i] = productFromDomain(&items[i])
	}
	return Result{
		SearchID:       sr.SearchID(),
		Query:          sr.Query(),
		Products:       products,
		Path:           Path(sr.Path()),
		Fallback:       sr.Fallback(),
		FallbackReason: sr.FallbackReason(),
		Message:        sr.Message(),
	}
}

func productFromDomain(p *product.Product) Product {
	out := Product{
		ID:          p.ID(),
		Title:       p.Title(),
		Price:       p.Price(),
		Category:    p.Category(),
		Description: p.Description(),
		Tags:        append([]string(nil), p.Tags()...),
	}
	if r, ok := p.Rating(); ok {
		out.Rating = &r
	}
	return out
}

// completerAdapter wraps the public Completer to satisfy domain.Completer.
type completerAdapter struct {
	inner Completer
}

func (a *completerAdapter) Complete(ctx context.Context, req domain.CompletionRequest) (domain.CompletionResult, error) {
	r, err := a.inner.Complete(ctx, CompletionRequest{System: req.System, Prompt: req.Prompt})
	if err != nil {
		return domain.CompletionResult{}, fmt.Errorf("complete: %w", err)
	}
	return domain.CompletionResult{
		Text:             r.Text,
		PromptTokens:     r.PromptTokens,
		CompletionTokens: r.CompletionTokens,
		TotalTokens:      r.TotalTokens,
	}, nil
}
