// file: internal/gazetteer/score.go
// version: 1.0.0
// guid: 7d8e9f0a-1b2c-3d4e-5f6a-7b8c9d0e1f2a

package gazetteer

import "strings"

// Score constants. These values are load-bearing: clients sort on them and
// the tiers must stay strictly ordered above the 0-100 overlap band.
const (
	scoreExact    = 1000
	scorePrefix   = 500
	scoreContains = 250
)

// Score rates how well name matches the user's query. Exact (case-insensitive)
// equality scores 1000, a prefix match 500, a substring match 250. Anything
// else falls back to distinct-character overlap scaled to 0-100: the count of
// distinct query characters that appear anywhere in the name, divided by the
// longer of the two lengths.
func Score(query, name string) float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	n := strings.ToLower(name)
	if q == "" || n == "" {
		return 0
	}

	switch {
	case n == q:
		return scoreExact
	case strings.HasPrefix(n, q):
		return scorePrefix
	case strings.Contains(n, q):
		return scoreContains
	}

	return overlapScore(q, n)
}

// overlapScore counts distinct query runes present in the name. Distinct,
// not multiset: "aaa" vs "a" overlaps on exactly one character.
func overlapScore(q, n string) float64 {
	present := make(map[rune]struct{})
	for _, r := range n {
		present[r] = struct{}{}
	}

	seen := make(map[rune]struct{})
	hits := 0
	for _, r := range q {
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		if _, ok := present[r]; ok {
			hits++
		}
	}

	qLen := len([]rune(q))
	nLen := len([]rune(n))
	longer := qLen
	if nLen > longer {
		longer = nLen
	}
	if longer == 0 {
		return 0
	}
	return float64(hits) / float64(longer) * 100
}
