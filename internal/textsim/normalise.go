package textsim

import "strings"

// Normalise canonicalises text for comparison. It lower-cases the input,
// splits on any run of Unicode whitespace and rejoins the fields with single
// ASCII spaces, so leading and trailing whitespace disappears.
// Empty input yields empty output.
func Normalise(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
