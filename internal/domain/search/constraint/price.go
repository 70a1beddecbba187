package constraint

import (
	"regexp"
	"strconv"
)

// boundPattern is one textual form of a price bound ("under $N", "over $N", ...).
type boundPattern struct {
	name string
	re   *regexp.Regexp
}

func newBoundPattern(name, expr string) boundPattern {
	return boundPattern{name: name, re: regexp.MustCompile(`(?i)\b` + expr + `\s+\$?(\d+)`)}
}

// find returns the amount of the first occurrence of the pattern in the query.
func (p boundPattern) find(query string) (float64, bool) {
	m := p.re.FindStringSubmatch(query)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return float64(n), true
}

// Ceiling forms in priority order.
var (
	underPattern    = newBoundPattern("under", `under`)
	belowPattern    = newBoundPattern("below", `below`)
	lessThanPattern = newBoundPattern("less than", `less\s+than`)
	upToPattern     = newBoundPattern("up to", `up\s+to`)
	uptoPattern     = newBoundPattern("upto", `upto`)

	ceilingPatterns = []boundPattern{underPattern, belowPattern, lessThanPattern, upToPattern, uptoPattern}
)

// Floor forms in priority order.
var (
	overPattern     = newBoundPattern("over", `over`)
	abovePattern    = newBoundPattern("above", `above`)
	moreThanPattern = newBoundPattern("more than", `more\s+than`)

	floorPatterns = []boundPattern{overPattern, abovePattern, moreThanPattern}
)

// Under matches "under $N".
func Under(query string) (float64, bool) { return underPattern.find(query) }

// Below matches "below $N".
func Below(query string) (float64, bool) { return belowPattern.find(query) }

// LessThan matches "less than $N".
func LessThan(query string) (float64, bool) { return lessThanPattern.find(query) }

// UpTo matches "up to $N".
func UpTo(query string) (float64, bool) { return upToPattern.find(query) }

// Upto matches the single-word form "upto $N".
func Upto(query string) (float64, bool) { return uptoPattern.find(query) }

// Over matches "over $N".
func Over(query string) (float64, bool) { return overPattern.find(query) }

// Above matches "above $N".
func Above(query string) (float64, bool) { return abovePattern.find(query) }

// MoreThan matches "more than $N".
func MoreThan(query string) (float64, bool) { return moreThanPattern.find(query) }

// MaxPrice returns the price ceiling expressed in the query.
// Forms are tried in fixed priority order; the first one present wins.
func MaxPrice(query string) (float64, bool) {
	return firstBound(ceilingPatterns, query)
}

// MinPrice returns the price floor expressed in the query.
func MinPrice(query string) (float64, bool) {
	return firstBound(floorPatterns, query)
}

func firstBound(patterns []boundPattern, query string) (float64, bool) {
	for _, p := range patterns {
		if v, ok := p.find(query); ok {
			return v, true
		}
	}
	return 0, false
}
