package search

import (
	"strconv"
	"strings"

	"github.com/kailas-cloud/prodex/internal/domain/product"
)

// SystemMessage frames the model as a catalog search assistant.
const SystemMessage = "You are a helpful e-commerce search assistant. " +
	"Analyze user queries and return relevant product IDs based on their requirements."

// NoneReply is the literal the model returns when nothing matches.
const NoneReply = "none"

const searchRules = `SEARCH RULES:
1. PRICE FILTERS:
   - "under $X", "below $X", "less than $X", "up to $X", "upto $X" = price <= X
   - "over $X", "above $X", "more than $X" = price >= X
   - Both a ceiling and a floor may apply to the same query.
   - For "items upto $5000" = return products with price <= 5000

2. CATEGORY MATCHING (BE SPECIFIC, FIRST RULE THAT APPLIES WINS):
   - "men's clothing" = ONLY "men's clothing" category
   - "women's clothing" = ONLY "women's clothing" category
   - "men's" = ONLY "men's clothing" category
   - "women's" = ONLY "women's clothing" category
   - "jewelery" OR "jewelry" OR "accessories" = ONLY "jewelery" category
   - "electronics" = ONLY "electronics" category
   - "clothes" OR "clothing" = BOTH men's clothing AND women's clothing

3. QUALITY:
   - "good reviews", "high rating", "well rated" = rating of at least 4.0

4. SEARCH EXAMPLES:
   - "items upto $5000" -> return ALL products with price <= 5000
   - "men's clothing" -> return ONLY men's clothing items
   - "accessories" -> return ONLY jewelery category items
   - "electronics under $100" -> return electronics with price <= 100

IMPORTANT:
- Always match categories EXACTLY as specified above
- For price queries without category, return ALL categories within price range
- Return product IDs as comma-separated numbers (e.g., "1,3,5")
- If no matches, return "none"`

// BuildPrompt renders the query, the catalog and the fixed instruction block.
func BuildPrompt(query string, catalog []product.Product) string {
	var b strings.Builder
	b.WriteString("You are an AI search assistant for an e-commerce store. ")
	b.WriteString("Analyze the user's query and return relevant product IDs.\n\n")
	b.WriteString("User Query: ")
	b.WriteString(strconv.Quote(query))
	b.WriteString("\n\nAvailable Products:\n")
	for i := range catalog {
		writeProductLine(&b, &catalog[i])
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(searchRules)
	b.WriteString("\n\nYour response:")
	return b.String()
}

func writeProductLine(b *strings.Builder, p *product.Product) {
	b.WriteString("ID: ")
	b.WriteString(strconv.Itoa(p.ID()))
	b.WriteString(", Title: ")
	b.WriteString(oneLine(p.Title()))
	b.WriteString(", Price: $")
	b.WriteString(strconv.FormatFloat(p.Price(), 'f', -1, 64))
	b.WriteString(", Category: ")
	b.WriteString(oneLine(p.Category()))
	b.WriteString(", Rating: ")
	if r, ok := p.Rating(); ok {
		b.WriteString(strconv.FormatFloat(r, 'f', -1, 64))
	} else {
		b.WriteString("N/A")
	}
	b.WriteString(", Description: ")
	b.WriteString(oneLine(p.Description()))
	if tags := p.Tags(); len(tags) > 0 {
		b.WriteString(", Tags: ")
		b.WriteString(oneLine(strings.Join(tags, ", ")))
	}
}

// oneLine keeps every product on its own line of the prompt.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
