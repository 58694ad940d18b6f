package core

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxSuggestDistance bounds how far a typo may be from a known name.
const maxSuggestDistance = 3

// Suggest returns the candidate closest to name by edit distance, or "" when
// nothing is close enough to be a plausible typo.
func Suggest(name string, candidates []string) string {
	best := ""
	bestDist := maxSuggestDistance + 1
	needle := strings.ToLower(name)
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(needle, strings.ToLower(c))
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
