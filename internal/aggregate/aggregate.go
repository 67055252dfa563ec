package aggregate

import (
	"strings"

	"github.com/hyperifyio/quizextract/internal/quiz"
)

// FingerprintLen is how many runes of the normalized stem identify a
// question. Two different questions sharing this long a prefix collapse
// into one.
const FingerprintLen = 100

// Fingerprint lower-cases and trims a stem, then keeps its first
// FingerprintLen runes.
func Fingerprint(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	n := 0
	for i := range s {
		if n == FingerprintLen {
			return s[:i]
		}
		n++
	}
	return s
}

// Dedupe keeps the first candidate for every fingerprint, preserving order.
func Dedupe(cands []quiz.Candidate) []quiz.Candidate {
	seen := make(map[string]struct{}, len(cands))
	out := make([]quiz.Candidate, 0, len(cands))
	for _, c := range cands {
		key := Fingerprint(c.Text)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}

// MergeAndNormalize concatenates candidate lists in order and drops later
// duplicates.
func MergeAndNormalize(groups [][]quiz.Candidate) []quiz.Candidate {
	n := 0
	for _, g := range groups {
		n += len(g)
	}
	all := make([]quiz.Candidate, 0, n)
	for _, g := range groups {
		all = append(all, g...)
	}
	return Dedupe(all)
}
