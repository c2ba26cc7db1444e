package textsim

import (
	"github.com/pmezard/go-difflib/difflib"
)

// Similarity returns the longest-matching-blocks ratio of two texts in [0, 1].
//
// The longest common contiguous run is found, the unmatched left and right
// remainders are handled recursively, and the matched lengths M are summed:
// the score is 2*M / (len(a)+len(b)) measured in runes. Two empty texts score
// 1.0. Every rune takes part in matching; no characters are discarded as junk.
//
// The measure is order-sensitive: an anagram scores well below 1.0.
// Alignment tie-breaking depends on argument order, so the lexicographically
// smaller text is always aligned first, which makes the score symmetric.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if b < a {
		a, b = b, a
	}
	matcher := difflib.NewMatcherWithJunk(splitRunes(a), splitRunes(b), false, nil)
	return matcher.Ratio()
}

// UpperBound returns a cheap upper bound on Similarity(a, b) computed from
// rune multiset intersection. It never underestimates the true score; the
// scanner uses it to skip pairs that cannot reach the threshold.
func UpperBound(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}

	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}

	avail := make(map[rune]int, len(ra))
	for _, r := range ra {
		avail[r]++
	}
	matches := 0
	for _, r := range rb {
		if avail[r] > 0 {
			avail[r]--
			matches++
		}
	}
	return ratio(matches, total)
}

// LengthBound returns the bound implied by lengths alone: 2*min/(la+lb).
func LengthBound(a, b string) float64 {
	la, lb := runeCount(a), runeCount(b)
	if la+lb == 0 {
		return 1.0
	}
	return ratio(min(la, lb), la+lb)
}

func ratio(matches, total int) float64 {
	return 2.0 * float64(matches) / float64(total)
}

func runeCount(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}

// splitRunes turns a string into one element per rune for the matcher.
func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
