// file: internal/gazetteer/variants.go
// version: 1.4.0
// guid: 5b6c7d8e-9f0a-1b2c-3d4e-5f6a7b8c9d0e

package gazetteer

import "strings"

// Bounds on the candidate set. Earliest-inserted variants win when the
// cap is reached, so rule order below is load-bearing.
const (
	maxVariants   = 20
	minVariantLen = 2
)

// variantRule is one spelling heuristic. Rules see the normalized query and
// return zero or more alternate spellings; the set handles trimming,
// dedup, minimum length, and the overall cap.
type variantRule struct {
	name   string
	expand func(q string) []string
}

// variantRules is the ordered heuristic table. Each rule targets one kind of
// transliteration drift seen in Latin-script spellings of Telugu place names
// ("gunttur", "kurnul", "chittor", ...). Order matters: the cheap,
// high-yield rules come first so they survive the cap.
var variantRules = []variantRule{
	{"tail-y-i-swap", tailYISwap},
	{"initial-expansion", initialExpansion},
	{"double-consonant-collapse", collapseDoubledConsonants},
	{"consonant-doubling", doubleConsonants},
	{"digraph-substitution", digraphSubstitutions},
	{"repeated-vowel-collapse", collapseRepeatedVowels},
	{"vowel-substitution", vowelSubstitutions},
	{"sha-sa", func(q string) []string { return bothWays(q, "sha", "sa") }},
	{"ul-ool", func(q string) []string { return bothWays(q, "ul", "ool") }},
	{"isha-isa", func(q string) []string { return bothWays(q, "isha", "isa") }},
	{"haka-akha", func(q string) []string { return bothWays(q, "haka", "akha") }},
	{"sri-shri-prefix", sriShriPrefix},
	{"suffix-substitution", suffixSubstitutions},
	{"nickname", nicknameLookup},
}

// nicknames maps well-known abbreviations to full canonical names. Applied
// only on an exact full-string match of the normalized query.
var nicknames = map[string]string{
	"vizag": "visakhapatnam",
	"vskp":  "visakhapatnam",
	"hyd":   "hyderabad",
	"bza":   "vijayawada",
	"kkd":   "kakinada",
	"rjy":   "rajahmundry",
	"tpt":   "tirupati",
}

// ExpandVariants turns one query into a bounded, ordered, de-duplicated set
// of plausible spellings. The raw query, its normalized form, and the
// normalized form with spaces removed are always present; the heuristic
// rules only run on queries that are plain ASCII letters/digits/spaces.
func ExpandVariants(raw string) []string {
	set := newVariantSet()

	q := Normalize(raw)
	set.add(strings.TrimSpace(raw))
	set.add(q)
	set.add(strings.ReplaceAll(q, " ", ""))

	if q == "" || !isASCIIAlnumSpace(q) {
		return set.items
	}

	for _, rule := range variantRules {
		for _, v := range rule.expand(q) {
			if v != q {
				set.add(v)
			}
		}
		if set.full() {
			break
		}
	}

	return set.items
}

// variantSet keeps insertion order, rejects duplicates and short strings,
// and enforces the overall cap.
type variantSet struct {
	items []string
	seen  map[string]struct{}
}

func newVariantSet() *variantSet {
	return &variantSet{seen: make(map[string]struct{}, maxVariants)}
}

func (s *variantSet) add(v string) {
	v = strings.TrimSpace(v)
	if len(v) < minVariantLen || s.full() {
		return
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}

func (s *variantSet) full() bool { return len(s.items) >= maxVariants }

func isASCIIAlnumSpace(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ' ' || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			continue
		}
		return false
	}
	return true
}

func isConsonant(c byte) bool {
	if c < 'a' || c > 'z' {
		return false
	}
	switch c {
	case 'a', 'e', 'i', 'o', 'u':
		return false
	}
	return true
}

func isVowel(c byte) bool {
	switch c {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

// tailYISwap handles the reddy/reddi style ending drift.
func tailYISwap(q string) []string {
	switch {
	case strings.HasSuffix(q, "y"):
		return []string{q[:len(q)-1] + "i"}
	case strings.HasSuffix(q, "i"):
		return []string{q[:len(q)-1] + "y"}
	}
	return nil
}

// initialExpansion turns a leading single-letter token into an initial:
// "g konduru" -> "g. konduru".
func initialExpansion(q string) []string {
	if len(q) >= 3 && q[1] == ' ' && isConsonantOrVowelLetter(q[0]) {
		return []string{q[:1] + ". " + q[2:]}
	}
	return nil
}

func isConsonantOrVowelLetter(c byte) bool { return c >= 'a' && c <= 'z' }

// collapseDoubledConsonants collapses every run of a repeated consonant to a
// single occurrence: "gunttur" -> "guntur", "kaddapa" -> "kadapa".
func collapseDoubledConsonants(q string) []string {
	var b strings.Builder
	b.Grow(len(q))
	for i := 0; i < len(q); i++ {
		if i > 0 && q[i] == q[i-1] && isConsonant(q[i]) {
			continue
		}
		b.WriteByte(q[i])
	}
	out := b.String()
	if out == q {
		return nil
	}
	return []string{out}
}

// doubleConsonants is the bounded inverse of the collapse rule, applied only
// to short queries. Each isolated consonant (not adjacent to its own copy
// and not followed by another consonant) yields one variant with that
// position doubled; no variant grows beyond three extra characters.
func doubleConsonants(q string) []string {
	if len(q) > 10 {
		return nil
	}
	var out []string
	for i := 0; i < len(q); i++ {
		c := q[i]
		if !isConsonant(c) {
			continue
		}
		if i > 0 && q[i-1] == c {
			continue
		}
		if i+1 < len(q) && isConsonant(q[i+1]) {
			continue
		}
		v := q[:i+1] + string(c) + q[i+1:]
		if len(v) <= len(q)+3 {
			out = append(out, v)
		}
	}
	return out
}

// digraphPairs are aspirated/soft consonant confusions; each pair produces a
// global replace in each direction that occurs in the query.
var digraphPairs = [][2]string{
	{"dh", "d"}, {"th", "t"}, {"ph", "p"},
	{"v", "b"}, {"v", "w"},
	{"kh", "k"}, {"gh", "g"}, {"ch", "c"}, {"sh", "s"},
}

func digraphSubstitutions(q string) []string {
	var out []string
	for _, p := range digraphPairs {
		out = append(out, bothWays(q, p[0], p[1])...)
	}
	return out
}

// collapseRepeatedVowels collapses runs of each repeated vowel: "aa" -> "a",
// "ee" -> "e". One variant per vowel present doubled.
func collapseRepeatedVowels(q string) []string {
	var out []string
	for _, v := range []string{"a", "e", "i", "o", "u"} {
		doubled := v + v
		if !strings.Contains(q, doubled) {
			continue
		}
		r := q
		for strings.Contains(r, doubled) {
			r = strings.ReplaceAll(r, doubled, v)
		}
		out = append(out, r)
	}
	return out
}

// vowelPairs are long/short vowel confusions. Results shorter than three
// characters are dropped (single letters are useless candidates).
var vowelPairs = [][2]string{
	{"oo", "u"}, {"u", "oo"},
	{"ee", "i"}, {"i", "ee"},
	{"i", "e"}, {"e", "i"},
	{"aa", "a"},
	{"o", "oo"}, {"oo", "o"},
}

func vowelSubstitutions(q string) []string {
	var out []string
	for _, p := range vowelPairs {
		if !strings.Contains(q, p[0]) {
			continue
		}
		r := strings.ReplaceAll(q, p[0], p[1])
		if r != q && len(r) >= 3 {
			out = append(out, r)
		}
	}
	return out
}

// bothWays produces a global replace in each direction that applies.
func bothWays(q, a, b string) []string {
	var out []string
	if strings.Contains(q, a) {
		if r := strings.ReplaceAll(q, a, b); r != q {
			out = append(out, r)
		}
	}
	if strings.Contains(q, b) {
		if r := strings.ReplaceAll(q, b, a); r != q {
			out = append(out, r)
		}
	}
	return out
}

func sriShriPrefix(q string) []string {
	switch {
	case strings.HasPrefix(q, "sri "):
		return []string{"shri " + q[len("sri "):]}
	case strings.HasPrefix(q, "shri "):
		return []string{"sri " + q[len("shri "):]}
	}
	return nil
}

// suffixPairs are common place-name ending confusions, matched at the end of
// the query only.
var suffixPairs = [][2]string{
	{"abad", "bad"}, {"bad", "abad"},
	{"puram", "pura"}, {"pura", "puram"},
	{"palle", "palli"}, {"palli", "palle"},
}

func suffixSubstitutions(q string) []string {
	var out []string
	for _, p := range suffixPairs {
		if !strings.HasSuffix(q, p[0]) {
			continue
		}
		// "hyderabad" ends in both "abad" and "bad"; the longer suffix owns it.
		if len(p[1]) > len(p[0]) && strings.HasSuffix(q, p[1]) {
			continue
		}
		out = append(out, strings.TrimSuffix(q, p[0])+p[1])
	}
	return out
}

func nicknameLookup(q string) []string {
	if full, ok := nicknames[q]; ok {
		return []string{full}
	}
	return nil
}
