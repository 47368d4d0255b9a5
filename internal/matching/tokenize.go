package matching

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const minTokenLen = 3

// Tokenize lower-cases text, blanks out punctuation and returns the
// whitespace-separated words longer than two characters, in order.
func Tokenize(text string) []string {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, strings.ToLower(text))

	fields := strings.Fields(clean)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= minTokenLen {
			out = append(out, f)
		}
	}
	return out
}
