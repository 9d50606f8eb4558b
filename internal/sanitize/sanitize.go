// Package sanitize normalizes free-form text before it is persisted. Field
// values arrive from a browser form and may carry markup or stray control
// characters; stored values are plain single-line text.
package sanitize

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	tagRegex        = regexp.MustCompile(`<[^>]*>`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// Text strips markup and control characters from s, collapses runs of
// whitespace to a single space, and trims the result.
func Text(s string) string {
	s = tagRegex.ReplaceAllString(s, "")
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
	s = whitespaceRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
