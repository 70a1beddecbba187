package search

import (
	"strconv"
	"strings"

	"github.com/kailas-cloud/prodex/internal/domain/product"
)

// Interpret extracts every maximal ASCII digit run from the reply, treats each as a product id,
// and returns the catalog products carrying those ids in catalog order.
// Runs that overflow int are skipped. A reply without digits yields an empty result.
func Interpret(reply string, catalog []product.Product) []product.Product {
	ids := extractIDs(reply)
	if len(ids) == 0 {
		return nil
	}

	var out []product.Product
	for i := range catalog {
		if _, ok := ids[catalog[i].ID()]; ok {
			out = append(out, catalog[i])
		}
	}
	return out
}

func extractIDs(reply string) map[int]struct{} {
	ids := make(map[int]struct{})
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		if n, err := strconv.Atoi(reply[start:end]); err == nil {
			ids[n] = struct{}{}
		}
		start = -1
	}
	for i := 0; i < len(reply); i++ {
		c := reply[i]
		if c >= '0' && c <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
	}
	flush(len(reply))
	return ids
}

// IsNoneReply reports whether the model explicitly answered that nothing matches.
func IsNoneReply(reply string) bool {
	s := strings.TrimSpace(reply)
	s = strings.Trim(s, `"'`+"`")
	s = strings.TrimSuffix(s, ".")
	return strings.EqualFold(strings.TrimSpace(s), NoneReply)
}
