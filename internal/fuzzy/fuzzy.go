// Package fuzzy scores how closely a search term matches a display name.
//
// Scores are on a 0–100 scale and follow the weighted-ratio scheme: a
// plain edit similarity, upgraded by substring (partial) and token based
// comparisons depending on how different the two lengths are.
package fuzzy

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	unbaseScale = 0.95
	// lenRatioPartial is the length ratio from which substring matching
	// is considered at all.
	lenRatioPartial = 1.5
	// lenRatioLong is the length ratio from which substring matches are
	// trusted less.
	lenRatioLong = 8.0
)

// Normalize strips diacritics and case-folds s, so "Produção" and
// "producao" compare equal.
func Normalize(s string) string {
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		out = s
	}
	return cases.Fold().String(strings.TrimSpace(out))
}

// Score returns the case- and accent-insensitive weighted ratio between
// query and choice, rounded to one decimal.
func Score(query, choice string) float64 {
	return Round1(WRatio(Normalize(query), Normalize(choice)))
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// WRatio is the weighted ratio of a and b, compared as given.
func WRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}

	shorter, longer := len(ra), len(rb)
	if shorter > longer {
		shorter, longer = longer, shorter
	}
	lenRatio := float64(longer) / float64(shorter)

	best := ratio(ra, rb)
	if lenRatio < lenRatioPartial {
		tokenBest := math.Max(TokenSortRatio(a, b), TokenSetRatio(a, b))
		return math.Max(best, tokenBest*unbaseScale)
	}

	partialScale := 0.9
	if lenRatio >= lenRatioLong {
		partialScale = 0.6
	}
	best = math.Max(best, PartialRatio(a, b)*partialScale)
	return math.Max(best, partialTokenRatio(a, b)*unbaseScale*partialScale)
}

// Ratio is the normalized indel similarity of a and b.
func Ratio(a, b string) float64 {
	return ratio([]rune(a), []rune(b))
}

func ratio(a, b []rune) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 100
	}
	return 100 * float64(2*lcs(a, b)) / float64(total)
}

// lcs returns the length of the longest common subsequence.
func lcs(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				cur[j] = prev[j-1] + 1
			case prev[j] >= cur[j-1]:
				cur[j] = prev[j]
			default:
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

// PartialRatio is the best Ratio between the shorter string and any
// equally long window of the longer one, including windows that hang off
// either end.
func PartialRatio(a, b string) float64 {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	m, n := len(short), len(long)
	if m == 0 {
		return 0
	}

	best := 0.0
	for start := -(m - 1); start < n; start++ {
		lo, hi := max(0, start), min(n, start+m)
		if r := ratio(short, long[lo:hi]); r > best {
			best = r
			if best == 100 {
				break
			}
		}
	}
	return best
}

// TokenSortRatio compares the strings after sorting their words.
func TokenSortRatio(a, b string) float64 {
	return Ratio(sortedJoin(strings.Fields(a)), sortedJoin(strings.Fields(b)))
}

// TokenSetRatio compares the shared words of a and b against each side's
// leftovers, so extra words on one side cost little.
func TokenSetRatio(a, b string) float64 {
	ta, tb := tokenSet(a), tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	inter, diffAB, diffBA := split(ta, tb)
	if len(inter) > 0 && (len(diffAB) == 0 || len(diffBA) == 0) {
		return 100
	}

	sect := strings.Join(inter, " ")
	combAB := joinNonEmpty(sect, strings.Join(diffAB, " "))
	combBA := joinNonEmpty(sect, strings.Join(diffBA, " "))

	best := Ratio(combAB, combBA)
	if sect != "" {
		best = math.Max(best, Ratio(sect, combAB))
		best = math.Max(best, Ratio(sect, combBA))
	}
	return best
}

// partialTokenRatio is a substring comparison of the sorted words; any
// shared word is a full match.
func partialTokenRatio(a, b string) float64 {
	ta, tb := tokenSet(a), tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	inter, _, _ := split(ta, tb)
	if len(inter) > 0 {
		return 100
	}
	return PartialRatio(sortedJoin(strings.Fields(a)), sortedJoin(strings.Fields(b)))
}

func tokenSet(s string) map[string]bool {
	set := map[string]bool{}
	for _, tok := range strings.Fields(s) {
		set[tok] = true
	}
	return set
}

func split(a, b map[string]bool) (inter, diffAB, diffBA []string) {
	for tok := range a {
		if b[tok] {
			inter = append(inter, tok)
		} else {
			diffAB = append(diffAB, tok)
		}
	}
	for tok := range b {
		if !a[tok] {
			diffBA = append(diffBA, tok)
		}
	}
	sort.Strings(inter)
	sort.Strings(diffAB)
	sort.Strings(diffBA)
	return inter, diffAB, diffBA
}

func sortedJoin(tokens []string) string {
	sorted := append([]string(nil), tokens...)
	sort.Strings(sorted)
	return strings.Join(sorted, " ")
}

func joinNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + " " + b
}
