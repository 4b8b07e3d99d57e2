package domain

import (
	"regexp"
	"unicode"
	"unicode/utf8"
)

// wenRun matches a run of one-or-more w, e and n letters, any case.
// Word boundaries are checked separately so that the definition of a
// boundary ("not adjacent to an alphanumeric") stays exact.
var wenRun = regexp.MustCompile(`(?i)w+e+n+`)

// FindWenMatches returns every WEN variation in text, preserving the
// original casing of each match. Matching is non-overlapping and
// left-to-right; each letter run is consumed greedily, so "weeeeen"
// yields a single match. Runs adjacent to a letter or digit ("wendys",
// "owen") are rejected. Empty or pattern-free text yields nil.
func FindWenMatches(text string) []string {
	if text == "" {
		return nil
	}

	var matches []string
	for _, loc := range wenRun.FindAllStringIndex(text, -1) {
		if !boundedAt(text, loc[0], loc[1]) {
			continue
		}
		matches = append(matches, text[loc[0]:loc[1]])
	}
	return matches
}

// CountWenMatches is a convenience wrapper returning count and matches
func CountWenMatches(text string) (int, []string) {
	matches := FindWenMatches(text)
	return len(matches), matches
}

// boundedAt reports whether text[start:end] is word-bounded on both
// sides, i.e. not adjacent to an alphanumeric rune
func boundedAt(text string, start, end int) bool {
	if start > 0 {
		before, _ := utf8.DecodeLastRuneInString(text[:start])
		if isAlnum(before) {
			return false
		}
	}
	if end < len(text) {
		after, _ := utf8.DecodeRuneInString(text[end:])
		if isAlnum(after) {
			return false
		}
	}
	return true
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
