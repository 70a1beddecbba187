package constraint

import (
	"regexp"

	"github.com/kailas-cloud/prodex/internal/domain/product"
)

// Category bonus weights.
const (
	WeightExact     = 5.0 // specific category named in full
	WeightShorthand = 4.0 // "men's" / "women's" without "clothing"
	WeightGroup     = 3.0 // generic clothing group
)

// Rule maps trigger phrases to a category set.
type Rule struct {
	Name       string
	Phrases    []string
	Categories []string
	Weight     float64

	patterns []*regexp.Regexp
}

func newRule(name string, phrases, categories []string, weight float64) Rule {
	r := Rule{Name: name, Phrases: phrases, Categories: categories, Weight: weight}
	for _, p := range phrases {
		r.patterns = append(r.patterns, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(p)+`\b`))
	}
	return r
}

// Fires reports whether any trigger phrase occurs in the query as a whole word or phrase.
func (r *Rule) Fires(query string) bool {
	for _, re := range r.patterns {
		if re.MatchString(query) {
			return true
		}
	}
	return false
}

var clothingGroup = []string{product.CategoryMensClothing, product.CategoryWomensClothing}

// categoryRules is evaluated top to bottom; the first rule that fires wins.
// Specific phrases precede the shorthand and generic ones.
var categoryRules = []Rule{
	newRule("mens_clothing", []string{"men's clothing"}, []string{product.CategoryMensClothing}, WeightExact),
	newRule("womens_clothing", []string{"women's clothing"}, []string{product.CategoryWomensClothing}, WeightExact),
	newRule("mens", []string{"men's"}, []string{product.CategoryMensClothing}, WeightShorthand),
	newRule("womens", []string{"women's"}, []string{product.CategoryWomensClothing}, WeightShorthand),
	newRule("jewelery", []string{"accessories", "jewelry", "jewelery"}, []string{product.CategoryJewelery}, WeightExact),
	newRule("electronics", []string{"electronics"}, []string{product.CategoryElectronics}, WeightExact),
	newRule("clothing", []string{"clothes", "clothing"}, clothingGroup, WeightGroup),
}

// Intent is the category constraint resolved from a query.
type Intent struct {
	Rule       string
	Categories []string
	Weight     float64
}

// IsEmpty reports whether no category rule fired.
func (i Intent) IsEmpty() bool { return i.Rule == "" }

// Matches reports whether the product's category is inside the intent.
func (i Intent) Matches(p *product.Product) bool {
	return p.InCategory(i.Categories...)
}

// ResolveCategory evaluates the rule list against the query and returns the first match.
func ResolveCategory(query string) Intent {
	for i := range categoryRules {
		r := &categoryRules[i]
		if r.Fires(query) {
			return Intent{Rule: r.Name, Categories: append([]string(nil), r.Categories...), Weight: r.Weight}
		}
	}
	return Intent{}
}
