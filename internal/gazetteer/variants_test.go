// file: internal/gazetteer/variants_test.go
// version: 1.1.0
// guid: 6b7c8d9e-0f1a-2b3c-4d5e-6f7a8b9c0d1e

package gazetteer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func contains(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}

func TestExpandVariants_AlwaysIncluded(t *testing.T) {
	got := ExpandVariants("  G. Konduru ")
	assert.Contains(t, got, "G. Konduru", "raw query (trimmed)")
	assert.Contains(t, got, "g konduru", "normalized query")
	assert.Contains(t, got, "gkonduru", "normalized query without spaces")
}

func TestExpandVariants_Bounds(t *testing.T) {
	inputs := []string{
		"", "a", "ab", "guntur", "gunttur", "kurnul", "vizag",
		"sri venkateswara palle", "visakhapatnam rural mandal",
		"abcdefghij", "aaaaaaaaaaaaaaaaaaaaaaaaaaa",
		"G. Konduru", "reddy", "paravathipuram manyam",
	}
	for _, in := range inputs {
		got := ExpandVariants(in)
		if len(got) > maxVariants {
			t.Errorf("ExpandVariants(%q) produced %d variants, cap is %d", in, len(got), maxVariants)
		}
		for _, v := range got {
			if len(v) < minVariantLen {
				t.Errorf("ExpandVariants(%q) produced short variant %q", in, v)
			}
		}
		seen := make(map[string]struct{})
		for _, v := range got {
			if _, dup := seen[v]; dup {
				t.Errorf("ExpandVariants(%q) produced duplicate variant %q", in, v)
			}
			seen[v] = struct{}{}
		}
	}
}

func TestExpandVariants_Rules(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"tail y to i", "reddy", "reddi"},
		{"tail i to y", "reddi", "reddy"},
		{"initial expansion", "g konduru", "g. konduru"},
		{"doubled consonant collapse", "gunttur", "guntur"},
		{"doubled consonant collapse multi", "kaddapa", "kadapa"},
		{"consonant doubling", "kadapa", "kaddapa"},
		{"digraph dh to d", "madhira", "madira"},
		{"digraph d to dh", "madira", "madhira"},
		{"digraph v to b", "vobbili", "bobbili"},
		{"digraph v to w", "varangal", "warangal"},
		{"digraph sh to s", "shattenapalle", "sattenapalle"},
		{"repeated vowel collapse", "kaakinada", "kakinada"},
		{"vowel oo to u", "goontur", "guntur"},
		{"vowel o to oo", "chittor", "chittoor"},
		{"ul to ool", "kurnul", "kurnool"},
		{"sha to sa", "shariki", "sariki"},
		{"sri to shri", "sri kalahasti", "shri kalahasti"},
		{"shri to sri", "shri kalahasti", "sri kalahasti"},
		{"suffix abad to bad", "hyderabad", "hyderbad"},
		{"suffix bad to abad", "hyderbad", "hyderabad"},
		{"suffix puram to pura", "ramapuram", "ramapura"},
		{"suffix palle to palli", "kothapalle", "kothapalli"},
		{"nickname vizag", "vizag", "visakhapatnam"},
		{"nickname tpt", "tpt", "tirupati"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExpandVariants(tt.query)
			if !contains(got, tt.want) {
				t.Errorf("ExpandVariants(%q) = %v, missing %q", tt.query, got, tt.want)
			}
		})
	}
}

func TestExpandVariants_DoublingOnlyShortQueries(t *testing.T) {
	// 11 chars: the doubling rule must not fire, the collapse still does.
	got := ExpandVariants("ramachandrap")
	for _, v := range got {
		if len(v) > len("ramachandrap") && strings.Contains(v, "pp") {
			t.Errorf("doubling fired on a long query: %q", v)
		}
	}
}

func TestExpandVariants_NonASCIIPassthrough(t *testing.T) {
	got := ExpandVariants("విశాఖపట్నం")
	// Raw and normalized forms only, no heuristic expansion.
	assert.LessOrEqual(t, len(got), 3)
	assert.Contains(t, got, "విశాఖపట్నం")
}

func TestExpandVariants_EmptyQuery(t *testing.T) {
	assert.Empty(t, ExpandVariants(""))
	assert.Empty(t, ExpandVariants("   "))
	assert.Empty(t, ExpandVariants("?"))
}
