// Package constraint extracts hard and soft search constraints from a natural-language query.
package constraint

import (
	"strings"

	"github.com/kailas-cloud/prodex/internal/domain/product"
)

// MinGoodRating is the lowest rating accepted when the query asks for well-reviewed products.
// A product without a rating fails that check.
const MinGoodRating = 4.0

// ratingPhrases signal a "high quality" requirement.
var ratingPhrases = []string{"good reviews", "high rating", "well rated"}

// Set is the constraint set derived from one query. Built per call, never shared.
type Set struct {
	MaxPrice          *float64
	MinPrice          *float64
	RequireGoodRating bool
	Category          Intent
}

// Extract parses price bounds, the rating requirement, and category intent out of a query.
func Extract(query string) Set {
	q := Normalize(query)

	var s Set
	if v, ok := MaxPrice(q); ok {
		s.MaxPrice = &v
	}
	if v, ok := MinPrice(q); ok {
		s.MinPrice = &v
	}
	s.RequireGoodRating = RequiresGoodRating(q)
	s.Category = ResolveCategory(q)
	return s
}

// Normalize folds typographic apostrophes so "men’s" and "men's" resolve the same way.
func Normalize(query string) string {
	return strings.NewReplacer("’", "'", "‘", "'").Replace(query)
}

// RequiresGoodRating reports whether the query contains a rating phrase (case-insensitive).
func RequiresGoodRating(query string) bool {
	q := strings.ToLower(query)
	for _, p := range ratingPhrases {
		if strings.Contains(q, p) {
			return true
		}
	}
	return false
}

// HasHardConstraint reports whether any constraint that can exclude a product is set.
func (s *Set) HasHardConstraint() bool {
	return s.MaxPrice != nil || s.MinPrice != nil || s.RequireGoodRating || !s.Category.IsEmpty()
}

// Admits applies the hard filters. It returns false when the product must never be returned.
// Under a rating requirement an unrated product is rejected.
func (s *Set) Admits(p *product.Product) bool {
	if s.MaxPrice != nil && p.Price() > *s.MaxPrice {
		return false
	}
	if s.MinPrice != nil && p.Price() < *s.MinPrice {
		return false
	}
	if s.RequireGoodRating {
		r, ok := p.Rating()
		if !ok || r < MinGoodRating {
			return false
		}
	}
	if !s.Category.IsEmpty() && !s.Category.Matches(p) {
		return false
	}
	return true
}
