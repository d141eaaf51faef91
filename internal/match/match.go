package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultTolerance is the edit distance bound used when callers pass no
// explicit tolerance. A guess matches when its distance from the answer is
// strictly below the tolerance, so the default accepts up to two edits.
const DefaultTolerance = 3

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowers the string, strips diacritics, turns hyphens into spaces,
// drops apostrophes, and collapses runs of whitespace.
func Normalize(s string) string {
	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, "’", "")
	return strings.Join(strings.Fields(s), " ")
}

// Matches reports whether guess is an acceptable answer for truth. An exact
// match after normalization always passes; otherwise the Levenshtein distance
// between the normalized strings must be strictly less than tolerance.
// Tolerance values below one fall back to DefaultTolerance.
func Matches(guess, truth string, tolerance int) bool {
	if tolerance < 1 {
		tolerance = DefaultTolerance
	}
	a := Normalize(guess)
	b := Normalize(truth)
	if a == b {
		return a != ""
	}
	return Distance(a, b) < tolerance
}

// Distance computes the Levenshtein edit distance between two strings at
// rune granularity.
func Distance(a, b string) int {
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
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// Closest returns the candidate nearest to name by normalized edit distance,
// along with whether any candidate fell within maxDistance.
func Closest(name string, candidates []string, maxDistance int) (string, bool) {
	target := Normalize(name)
	best := ""
	bestDist := maxDistance + 1
	for _, candidate := range candidates {
		d := Distance(target, Normalize(candidate))
		if d < bestDist {
			best = candidate
			bestDist = d
		}
	}
	return best, bestDist <= maxDistance
}
