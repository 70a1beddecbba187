package search

import (
	"strings"

	"github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/search/constraint"
	"github.com/kailas-cloud/prodex/internal/domain/search/synonym"
)

// Scoring weights.
const (
	termWeight    = 1.0
	synonymWeight = 0.8
	ratingBonus   = 2.0
	priceBoost    = 1.0

	budgetCeiling = 50.0
	premiumFloor  = 200.0

	minTermLen = 3
)

// scoredProduct keeps the catalog position so ties can be broken by it.
type scoredProduct struct {
	index   int
	product product.Product
	score   float64
}

// Tokenize lower-cases the query and splits it on whitespace, dropping terms of two characters or less.
func Tokenize(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	terms := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) >= minTermLen {
			terms = append(terms, f)
		}
	}
	return terms
}

// searchableText is the lower-cased haystack the query terms are matched against.
func searchableText(p *product.Product) string {
	return strings.ToLower(p.Title() + " " + p.Category() + " " + p.Description())
}

// Score computes the relevance of one product. ok is false when a hard constraint excludes it.
func Score(p *product.Product, query string, cs *constraint.Set, terms []string) (score float64, ok bool) {
	if !cs.Admits(p) {
		return 0, false
	}

	if !cs.Category.IsEmpty() {
		score += cs.Category.Weight
	}
	if cs.RequireGoodRating {
		score += ratingBonus
	}

	text := searchableText(p)
	for _, term := range terms {
		if strings.Contains(text, term) {
			score += termWeight
		}
		for _, syn := range synonym.Lookup(term) {
			if strings.Contains(text, syn) {
				score += synonymWeight
			}
		}
	}

	q := strings.ToLower(query)
	if strings.Contains(q, "budget") && p.Price() < budgetCeiling {
		score += priceBoost
	}
	if strings.Contains(q, "premium") && p.Price() > premiumFloor {
		score += priceBoost
	}

	return score, true
}

// scoreCatalog scores every product and keeps those eligible for output:
// a positive score, or a pass through at least one hard constraint.
func scoreCatalog(query string, catalog []product.Product) []scoredProduct {
	cs := constraint.Extract(query)
	terms := Tokenize(query)
	passThrough := cs.HasHardConstraint()

	out := make([]scoredProduct, 0, len(catalog))
	for i := range catalog {
		p := &catalog[i]
		s, ok := Score(p, query, &cs, terms)
		if !ok {
			continue
		}
		if s > 0 || passThrough {
			out = append(out, scoredProduct{index: i, product: *p, score: s})
		}
	}
	return out
}
