// Package synonym holds the static related-terms table used by the keyword scorer.
package synonym

import "strings"

// table is read-only after package initialization.
var table = map[string][]string{
	"shoes":       {"footwear", "sneakers", "boots"},
	"laptop":      {"computer", "macbook", "notebook"},
	"phone":       {"smartphone", "mobile"},
	"cheap":       {"affordable", "budget", "inexpensive"},
	"expensive":   {"premium", "high-end", "luxury"},
	"good":        {"excellent", "great", "quality"},
	"clothing":    {"apparel", "clothes", "wear"},
	"accessories": {"jewelery", "jewelry", "accessory"},
	"running":     {"jogging", "athletic", "sport"},
	"casual":      {"everyday", "informal", "relaxed"},
}

// Lookup returns the related terms for a word. Matching is exact and case-insensitive;
// unknown words yield nil. The returned slice is a copy.
func Lookup(term string) []string {
	related, ok := table[strings.ToLower(strings.TrimSpace(term))]
	if !ok {
		return nil
	}
	return append([]string(nil), related...)
}

