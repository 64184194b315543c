package graph

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Similarity scores how close two entity names are, in [0,1].
// A single pluggable implementation keeps the matching strategy
// swappable and testable independently of graph logic.
type Similarity interface {
	Compare(a, b string) float64
}

// TokenSimilarity blends token-set overlap with edit distance.
// Matching is case- and diacritic-insensitive and tolerant of partial
// token overlap, so "USDA Organic Certified" scores high against
// "USDA Organic".
type TokenSimilarity struct{}

// NewTokenSimilarity creates the default similarity function
func NewTokenSimilarity() *TokenSimilarity {
	return &TokenSimilarity{}
}

const (
	tokenWeight = 0.7
	editWeight  = 0.3
)

// Compare returns the similarity of two names in [0,1].
// Identical normalized names always return exactly 1.0.
func (s *TokenSimilarity) Compare(a, b string) float64 {
	na := normalizeName(a)
	nb := normalizeName(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1.0
	}

	ta := strings.Fields(na)
	tb := strings.Fields(nb)

	overlap := tokenOverlap(ta, tb)
	dice := 2 * float64(overlap) / float64(len(ta)+len(tb))
	minLen := len(ta)
	if len(tb) < minLen {
		minLen = len(tb)
	}
	containment := float64(overlap) / float64(minLen)
	tokenScore := (dice + containment) / 2

	dist := levenshtein(na, nb)
	maxLen := len([]rune(na))
	if l := len([]rune(nb)); l > maxLen {
		maxLen = l
	}
	editScore := 1 - float64(dist)/float64(maxLen)
	if editScore < 0 {
		editScore = 0
	}

	return tokenWeight*tokenScore + editWeight*editScore
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeName lowercases, strips diacritics and collapses punctuation
// to spaces
func normalizeName(s string) string {
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range strings.ToLower(folded) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '%':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// tokenOverlap counts distinct shared tokens
func tokenOverlap(a, b []string) int {
	set := make(map[string]bool, len(a))
	for _, t := range a {
		set[t] = true
	}
	seen := make(map[string]bool, len(b))
	overlap := 0
	for _, t := range b {
		if set[t] && !seen[t] {
			overlap++
			seen[t] = true
		}
	}
	return overlap
}

// levenshtein computes edit distance with a two-row table
func levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			min := del
			if ins < min {
				min = ins
			}
			if sub < min {
				min = sub
			}
			curr[j] = min
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
