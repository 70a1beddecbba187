package product

import (
	"fmt"
	"math"
	"strings"
)

// Canonical catalog categories referenced by the category rules.
const (
	CategoryMensClothing   = "men's clothing"
	CategoryWomensClothing = "women's clothing"
	CategoryJewelery       = "jewelery"
	CategoryElectronics    = "electronics"
)

// MaxRating is the upper bound of the rating scale.
const MaxRating = 5.0

// Product is a catalog item (immutable value object).
// The core reads it for the duration of one search and never stores it.
type Product struct {
	id          int
	title       string
	price       float64
	category    string
	description string
	rating      *float64
	tags        []string
}

// New validates and creates a Product.
// Price must be a finite non-negative number; rating, when present, must be within 0..5.
func New(
	id int, title string, price float64, category, description string,
	rating *float64, tags []string,
) (Product, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return Product{}, fmt.Errorf("product %d: price must be a non-negative number", id)
	}
	if rating != nil {
		r := *rating
		if math.IsNaN(r) || r < 0 || r > MaxRating {
			return Product{}, fmt.Errorf("product %d: rating must be between 0 and %.0f", id, MaxRating)
		}
		rating = &r
	}

	return Product{
		id:          id,
		title:       title,
		price:       price,
		category:    category,
		description: description,
		rating:      rating,
		tags:        append([]string(nil), tags...),
	}, nil
}

// Reconstruct creates a Product without validation (test fixtures, trusted sources).
func Reconstruct(
	id int, title string, price float64, category, description string,
	rating *float64, tags []string,
) Product {
	return Product{
		id: id, title: title, price: price, category: category,
		description: description, rating: rating, tags: tags,
	}
}

// ID returns the catalog identifier.
func (p *Product) ID() int { return p.id }

// Title returns the product title.
func (p *Product) Title() string { return p.title }

// Price returns the product price.
func (p *Product) Price() float64 { return p.price }

// Category returns the product category as submitted.
func (p *Product) Category() string { return p.category }

// Description returns the free-text description.
func (p *Product) Description() string { return p.description }

// Rating returns the rating and whether one is present.
func (p *Product) Rating() (float64, bool) {
	if p.rating == nil {
		return 0, false
	}
	return *p.rating, true
}

// Tags returns the optional tag list.
func (p *Product) Tags() []string { return p.tags }

// InCategory reports whether the product belongs to one of the given categories.
// Comparison ignores case and surrounding whitespace.
func (p *Product) InCategory(categories ...string) bool {
	own := strings.TrimSpace(p.category)
	for _, c := range categories {
		if strings.EqualFold(own, c) {
			return true
		}
	}
	return false
}
