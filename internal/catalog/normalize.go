package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize folds s for accent-insensitive matching: combining marks are removed after NFD decomposition,
// đ becomes d, the result is lower-cased and runs of whitespace collapse to a single space.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = strings.NewReplacer("đ", "d", "Đ", "d").Replace(folded)
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// Keywords splits a normalized query into its words.
func Keywords(query string) []string {
	return strings.Fields(Normalize(query))
}

// matchText narrows items to those whose normalized text contains the whole query. When that yields
// nothing and the query has several words, it retries requiring every word to appear.
func matchText[T any](items []T, query string, text func(T) string) []T {
	q := Normalize(query)
	if q == "" {
		return items
	}

	haystacks := make([]string, len(items))
	for i, item := range items {
		haystacks[i] = Normalize(text(item))
	}

	out := make([]T, 0, len(items))
	for i, item := range items {
		if strings.Contains(haystacks[i], q) {
			out = append(out, item)
		}
	}
	if len(out) > 0 {
		return out
	}

	words := strings.Fields(q)
	if len(words) < 2 {
		return out
	}
	for i, item := range items {
		if containsAll(haystacks[i], words) {
			out = append(out, item)
		}
	}
	return out
}

func containsAll(haystack string, words []string) bool {
	for _, w := range words {
		if !strings.Contains(haystack, w) {
			return false
		}
	}
	return true
}
