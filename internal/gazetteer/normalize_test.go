// file: internal/gazetteer/normalize_test.go
// version: 1.0.0
// guid: 4a5b6c7d-8e9f-0a1b-2c3d-4e5f6a7b8c9d

package gazetteer

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"", ""},
		{"   ", ""},
		{"Guntur", "guntur"},
		{"  Visakhapatnam  ", "visakhapatnam"},
		{"G.Konduru", "g konduru"},
		{"Sri-City", "sri city"},
		{"rama's puram", "ramas puram"},
		{"Nāgārjuna Sāgar", "nagarjuna sagar"},
		{"east/west godavari", "east west godavari"},
		{"kurnool_district", "kurnool district"},
		{"a   lot    of   spaces", "a lot of spaces"},
		{"!!??", ""},
		{"Anantapur (Rural)", "anantapur rural"},
		{"ward no. 12", "ward no 12"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.input); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"", "   ", "Guntur", "G. Konduru", "Nāgārjuna Sāgar",
		"rama's puram", "east/west godavari", "!!??", "Sri-City 12",
		"విశాఖపట్నం", "mixed విశాఖ latin",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}
