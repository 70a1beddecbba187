package chi

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/prodex/internal/domain"
	"github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/search/result"
	domusage "github.com/kailas-cloud/prodex/internal/domain/usage"
	"github.com/kailas-cloud/prodex/internal/transport/wire"
)

// searchRequest is the POST /api/ai-search body.
type searchRequest struct {
	Query    string         `json:"query"`
	Products []wire.Product `json:"products"`
}

func catalogFromJSON(items []wire.Product) ([]product.Product, error) {
	catalog := make([]product.Product, len(items))
	for i := range items {
		p := &items[i]
		prod, err := product.New(p.ID, p.Title, p.Price, p.Category, p.Description, p.Rating.Value(), p.Tags)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
		catalog[i] = prod
	}
	return catalog, nil
}

// searchResponse keeps the envelope field names storefront clients already read.
type searchResponse struct {
	Success    bool           `json:"success"`
	Results    []wire.Product `json:"results"`
	Query      string         `json:"query"`
	TotalFound int            `json:"totalFound"`
	Fallback   bool           `json:"fallback"`
	Message    string         `json:"message,omitempty"`
	SearchID   string         `json:"searchId"`
}

// searchResponseFrom echoes the submitted product objects for every ranked product.
// Catalog ids are unique per request, so the first submitted item with an id stands for it.
func searchResponseFrom(res *result.SearchResult, submitted []wire.Product) searchResponse {
	byID := make(map[int]wire.Product, len(submitted))
	for _, p := range submitted {
		if _, ok := byID[p.ID]; !ok {
			byID[p.ID] = p
		}
	}

	products := res.Products()
	items := make([]wire.Product, 0, len(products))
	for i := range products {
		items = append(items, byID[products[i].ID()])
	}

	return searchResponse{
		Success:    true,
		Results:    items,
		Query:      res.Query(),
		TotalFound: res.Count(),
		Fallback:   res.Fallback(),
		Message:    res.Message(),
		SearchID:   res.SearchID(),
	}
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

type budgetJSON struct {
	TokensLimit     int64      `json:"tokensLimit"`
	TokensUsed      int64      `json:"tokensUsed"`
	TokensRemaining int64      `json:"tokensRemaining"`
	IsExhausted     bool       `json:"isExhausted"`
	PeriodStartAt   *time.Time `json:"periodStartAt,omitempty"`
	ResetsAt        *time.Time `json:"resetsAt,omitempty"`
}

type usageResponse struct {
	Period    string     `json:"period"`
	Provider  string     `json:"provider,omitempty"`
	AIEnabled bool       `json:"aiEnabled"`
	Budget    budgetJSON `json:"budget"`
}

func usageResponseFrom(report *domusage.Report) usageResponse {
	w := report.Window()
	b := budgetJSON{
		TokensLimit:     w.Limit,
		TokensUsed:      w.Used,
		TokensRemaining: w.Remaining,
		IsExhausted:     w.Exhausted(),
	}
	if !w.Start.IsZero() {
		start := w.Start.UTC()
		b.PeriodStartAt = &start
	}
	if !w.ResetsAt.IsZero() {
		resets := w.ResetsAt.UTC()
		b.ResetsAt = &resets
	}
	return usageResponse{
		Period:    string(report.Period()),
		Provider:  report.Provider(),
		AIEnabled: report.AIEnabled(),
		Budget:    b,
	}
}
