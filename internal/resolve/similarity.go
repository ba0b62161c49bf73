package resolve

import (
	"strings"
	"unicode"

	"github.com/antzucaro/matchr"
)

// SimilarityThreshold is the minimum normalized score a candidate must reach
// against the parsed filename strings before it is accepted as a match.
const SimilarityThreshold = 0.75

// Similarity scores how alike two titles are, in [0, 1]. Comparison is
// case-insensitive and ignores punctuation; 1 means the normalized strings
// are identical.
func Similarity(a, b string) float64 {
	na := normalizeTitle(a)
	nb := normalizeTitle(b)
	if na == nb {
		return 1
	}
	if na == "" || nb == "" {
		return 0
	}

	// Containment covers "Song" vs "Song (Official Video)" style pairs
	// that edit distance would penalize.
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return 1
	}

	longest := len(na)
	if len(nb) > longest {
		longest = len(nb)
	}
	distance := matchr.Levenshtein(na, nb)
	return 1 - float64(distance)/float64(longest)
}

func normalizeTitle(s string) string {
	var b strings.Builder
	lastSpace := true
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case !lastSpace:
			b.WriteRune(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}
