// Package identify classifies raw contact sightings against a target role
// taxonomy and scores how trustworthy each sighting is.
package identify

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// abbreviations maps known title abbreviations to their expansion. An
// abbreviation only expands when it is the entire normalized title or its
// leading token; "gcse" must never become "general counsel se".
var abbreviations = map[string]string{
	"cfo": "chief financial officer",
	"gc":  "general counsel",
}

// NormalizeTitle canonicalizes a free-text job title for matching: lower
// case, non-alphanumeric runs collapsed to single spaces, known
// abbreviations expanded. Total: unmatched input comes back cleaned
// but otherwise unchanged.
func NormalizeTitle(title string) string {
	t := strings.ToLower(title)
	t = nonAlnum.ReplaceAllString(t, " ")
	t = strings.TrimSpace(t)
	t = strings.Join(strings.Fields(t), " ")
	for abbr, full := range abbreviations {
		if t == abbr {
			return full
		}
		if rest, ok := strings.CutPrefix(t, abbr+" "); ok {
			return full + " " + rest
		}
	}
	return t
}

// NormalizeName canonicalizes a person name for merge keying: lower case
// with whitespace runs collapsed.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// Ratio returns the Ratcliff/Obershelp similarity between two strings:
// twice the number of matching characters divided by the total length.
// Matching characters are found by recursing around the longest common
// substring, the same procedure difflib-style matchers use.
func Ratio(a, b string) float64 {
	if len(a)+len(b) == 0 {
		return 1.0
	}
	return 2.0 * float64(matchingChars(a, b)) / float64(len(a)+len(b))
}

func matchingChars(a, b string) int {
	ai, bi, n := longestCommonSubstring(a, b)
	if n == 0 {
		return 0
	}
	return n +
		matchingChars(a[:ai], b[:bi]) +
		matchingChars(a[ai+n:], b[bi+n:])
}

// longestCommonSubstring returns the start offsets and length of the
// earliest longest common substring of a and b.
func longestCommonSubstring(a, b string) (ai, bi, n int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
				if cur[j] > n {
					n = cur[j]
					ai = i - n
					bi = j - n
				}
			} else {
				cur[j] = 0
			}
		}
		prev, cur = cur, prev
		clear(cur)
	}
	return ai, bi, n
}
