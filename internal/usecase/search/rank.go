package search

import (
	"sort"

	"github.com/kailas-cloud/prodex/internal/domain/product"
)

// rank orders scored products by descending score. Equal scores keep catalog order.
// Scores are dropped from the output.
func rank(scored []scoredProduct) []product.Product {
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].index < scored[j].index
	})

	out := make([]product.Product, len(scored))
	for i := range scored {
		out[i] = scored[i].product
	}
	return out
}

// Fallback runs the deterministic keyword strategy: extract constraints, score, rank.
func Fallback(query string, catalog []product.Product) []product.Product {
	return rank(scoreCatalog(query, catalog))
}
