package search

import (
	"math"
	"math/rand/v2"
	"strconv"
	"testing"

	"github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/search/constraint"
)

func rating(v float64) *float64 { return &v }

func item(id int, title string, price float64, category string, r *float64) product.Product {
	return product.Reconstruct(id, title, price, category, "", r, nil)
}

func ids(ps []product.Product) []int {
	out := make([]int, len(ps))
	for i := range ps {
		out[i] = ps[i].ID()
	}
	return out
}

func equalIDs(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func scoreOf(t *testing.T, p product.Product, query string) float64 {
	t.Helper()
	cs := constraint.Extract(query)
	s, ok := Score(&p, query, &cs, Tokenize(query))
	if !ok {
		t.Fatalf("product %d unexpectedly excluded for %q", p.ID(), query)
	}
	return s
}

func TestTokenize(t *testing.T) {
	got := Tokenize("  Red  ON a Laptop  bag ")
	want := []string{"red", "laptop", "bag"}
	if len(got) != len(want) {
		t.Fatalf("Tokenize = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Tokenize[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if len(Tokenize("a an")) != 0 {
		t.Error("expected short terms to be dropped")
	}
}

func TestScore_TermAndSynonymWeights(t *testing.T) {
	direct := item(1, "Trail Shoes", 60, "sports", nil)
	viaSynonym := item(2, "Trail Sneakers", 60, "sports", nil)

	d := scoreOf(t, direct, "shoes")
	s := scoreOf(t, viaSynonym, "shoes")

	if d != 1.0 {
		t.Errorf("direct match score = %v, want 1.0", d)
	}
	if math.Abs(s-0.8) > 1e-9 {
		t.Errorf("synonym match score = %v, want 0.8", s)
	}
	if s >= d {
		t.Errorf("synonym score %v must be below direct score %v", s, d)
	}
}

func TestScore_SynonymsAccumulate(t *testing.T) {
	p := item(1, "Footwear: boots", 60, "sports", nil)
	got := scoreOf(t, p, "shoes")
	if math.Abs(got-1.6) > 1e-9 {
		t.Errorf("score = %v, want 1.6", got)
	}
}

func TestScore_CategoryWeights(t *testing.T) {
	tests := []struct {
		query    string
		category string
		want     float64
	}{
		{"men's clothing", product.CategoryMensClothing, 5 + 2}, // "men's" and "clothing" terms also match
		{"men's", product.CategoryMensClothing, 4 + 1},
		{"clothes", product.CategoryWomensClothing, 3},
		{"electronics", product.CategoryElectronics, 5 + 1},
		{"accessories", product.CategoryJewelery, 5 + 0.8},
	}
	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			p := item(1, "Item", 10, tc.category, nil)
			got := scoreOf(t, p, tc.query)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("score = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestScore_RatingBonus(t *testing.T) {
	p := item(1, "Item", 10, "misc", rating(4.6))
	got := scoreOf(t, p, "well rated")
	if got != 2 {
		t.Errorf("score = %v, want 2", got)
	}
}

func TestScore_PriceBoosts(t *testing.T) {
	cheap := item(1, "Item", 20, "misc", nil)
	pricey := item(2, "Item", 500, "misc", nil)

	if got := scoreOf(t, cheap, "budget"); got != 1 {
		t.Errorf("budget boost score = %v, want 1", got)
	}
	if got := scoreOf(t, pricey, "budget"); got != 0 {
		t.Errorf("no budget boost expected, got %v", got)
	}
	if got := scoreOf(t, pricey, "PREMIUM"); got != 1 {
		t.Errorf("premium boost score = %v, want 1", got)
	}
	if got := scoreOf(t, cheap, "premium"); got != 0 {
		t.Errorf("no premium boost expected, got %v", got)
	}
}

func TestScore_HardExclusion(t *testing.T) {
	p := item(1, "Laptop", 900, product.CategoryElectronics, rating(3.0))
	for _, q := range []string{"laptop under $500", "laptop over $1000", "laptop good reviews", "laptop jewelry"} {
		cs := constraint.Extract(q)
		if _, ok := Score(&p, q, &cs, Tokenize(q)); ok {
			t.Errorf("expected exclusion for %q", q)
		}
	}
}

func TestFallback_ZeroScoreOmittedWithoutHardConstraint(t *testing.T) {
	catalog := []product.Product{
		item(1, "Blue Mug", 10, "kitchen", nil),
		item(2, "Red Mug", 10, "kitchen", nil),
	}
	got := ids(Fallback("red mug", catalog))
	if !equalIDs(got, []int{2, 1}) {
		t.Errorf("got %v, want [2 1]", got)
	}
	if got := Fallback("teapot", catalog); len(got) != 0 {
		t.Errorf("expected no results, got %v", ids(got))
	}
}

func TestFallback_HardFilterPassThrough(t *testing.T) {
	catalog := []product.Product{
		item(1, "Blue Mug", 10, "kitchen", nil),
		item(2, "Lamp", 300, "home", nil),
	}
	got := ids(Fallback("items upto $5000", catalog))
	if !equalIDs(got, []int{1, 2}) {
		t.Errorf("got %v, want [1 2]", got)
	}
}

func TestFallback_PriceCeilingProperty(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	forms := []string{"under", "below", "less than", "up to", "upto"}

	for round := 0; round < 200; round++ {
		catalog := randomCatalog(rng, 30)
		n := rng.IntN(500)
		query := "shirt " + forms[round%len(forms)] + " $" + strconv.Itoa(n)

		for _, p := range Fallback(query, catalog) {
			if p.Price() > float64(n) {
				t.Fatalf("%q returned product %d priced %v", query, p.ID(), p.Price())
			}
		}
	}
}

func TestFallback_PriceFloorProperty(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	forms := []string{"over", "above", "more than"}

	for round := 0; round < 200; round++ {
		catalog := randomCatalog(rng, 30)
		n := rng.IntN(500)
		query := "ring " + forms[round%len(forms)] + " " + strconv.Itoa(n)

		for _, p := range Fallback(query, catalog) {
			if p.Price() < float64(n) {
				t.Fatalf("%q returned product %d priced %v", query, p.ID(), p.Price())
			}
		}
	}
}

func TestFallback_CategoryExactness(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	for round := 0; round < 50; round++ {
		catalog := randomCatalog(rng, 40)

		for _, p := range Fallback("men's clothing", catalog) {
			if p.Category() != product.CategoryMensClothing {
				t.Fatalf("men's clothing query returned category %q", p.Category())
			}
		}
		for _, p := range Fallback("accessories", catalog) {
			if p.Category() != product.CategoryJewelery {
				t.Fatalf("accessories query returned category %q", p.Category())
			}
		}
	}
}

var testCategories = []string{
	product.CategoryMensClothing, product.CategoryWomensClothing,
	product.CategoryJewelery, product.CategoryElectronics, "footwear",
}

var testTitles = []string{"Shirt", "Ring", "Laptop", "Dress", "Running Shoes", "Jacket"}

func newTestRand() *rand.Rand { return rand.New(rand.NewPCG(7, 8)) }

func randomCatalog(rng *rand.Rand, n int) []product.Product {
	out := make([]product.Product, n)
	for i := range out {
		var r *float64
		if rng.IntN(4) > 0 {
			r = rating(float64(rng.IntN(51)) / 10)
		}
		out[i] = product.Reconstruct(
			i+1,
			testTitles[rng.IntN(len(testTitles))],
			float64(rng.IntN(100000))/100,
			testCategories[rng.IntN(len(testCategories))],
			"",
			r,
			nil,
		)
	}
	return out
}
