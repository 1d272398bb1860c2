package fuzzy

import (
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Produção", "producao"},
		{"Vendas São Paulo", "vendas sao paulo"},
		{"  Gestão de Clientes ", "gestao de clientes"},
		{"R&D / Innovation", "r&d / innovation"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name          string
		query, choice string
		want          float64
	}{
		{"exact", "Custaudio", "Custaudio", 100},
		{"case insensitive", "custaudio", "Custaudio", 100},
		{"substring of longer name", "Custaudio", "Custaudio pipe", 90},
		{"shared trailing word", "pipe", "Drico pipe", 90},
		{"unaccented query", "Sao Paulo", "Vendas São Paulo", 90},
		{"cedilla", "Producao", "Produção", 100},
		{"exact accented", "Contratação", "Contratação", 100},
		{"punctuation kept", "R&D", "R&D / Innovation", 90},
		{"ampersand", "Sales & Marketing", "Sales & Marketing", 100},
		{"empty query", "", "Anything", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.query, tt.choice); got != tt.want {
				t.Errorf("Score(%q, %q) = %v, want %v", tt.query, tt.choice, got, tt.want)
			}
		})
	}
}

func TestScore_UnrelatedNamesStayBelowDefaultThreshold(t *testing.T) {
	for _, choice := range []string{"Custaudio pipe", "Drico pipe", "Gestão de Clientes", "Bug Tracker [v2.0]"} {
		if got := Score("XyzNonExistent123", choice); got >= 70 {
			t.Errorf("Score(XyzNonExistent123, %q) = %v, want < 70", choice, got)
		}
	}
}

func TestRatio(t *testing.T) {
	if got := Ratio("", ""); got != 100 {
		t.Errorf("Ratio of empty strings = %v, want 100", got)
	}
	if got := Ratio("abc", "xyz"); got != 0 {
		t.Errorf("Ratio(abc, xyz) = %v, want 0", got)
	}
	// LCS("custaudio", "Custaudio") = 8 → 2*8/18.
	if got := Round1(Ratio("custaudio", "Custaudio")); got != 88.9 {
		t.Errorf("Ratio = %v, want 88.9", got)
	}
}

func TestPartialRatio(t *testing.T) {
	if got := PartialRatio("pipe", "Custaudio pipe"); got != 100 {
		t.Errorf("PartialRatio = %v, want 100", got)
	}
	if got := PartialRatio("Custaudio pipe", "pipe"); got != 100 {
		t.Errorf("PartialRatio should be symmetric in argument order, got %v", got)
	}
	if got := PartialRatio("", "abc"); got != 0 {
		t.Errorf("PartialRatio with empty = %v, want 0", got)
	}
}

func TestTokenRatios(t *testing.T) {
	if got := TokenSortRatio("paulo sao", "sao paulo"); got != 100 {
		t.Errorf("TokenSortRatio = %v, want 100", got)
	}
	if got := TokenSetRatio("sao paulo", "vendas sao paulo"); got != 100 {
		t.Errorf("TokenSetRatio subset = %v, want 100", got)
	}
	got := TokenSetRatio("alpha beta", "alpha gamma")
	if got <= 0 || got >= 100 {
		t.Errorf("TokenSetRatio partial overlap = %v, want in (0, 100)", got)
	}
}

func TestWRatio_Bounds(t *testing.T) {
	pairs := [][2]string{
		{"a", "abcdefghijklmnop"},
		{"bug", "bug tracker [v2.0]"},
		{"gestao", "gestao de clientes"},
	}
	for _, p := range pairs {
		got := WRatio(p[0], p[1])
		if got < 0 || got > 100 || math.IsNaN(got) {
			t.Errorf("WRatio(%q, %q) = %v, out of range", p[0], p[1], got)
		}
	}
}
