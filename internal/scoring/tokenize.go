package scoring

import (
	"strings"
	"unicode"
)

// Tokenize splits text into lower-cased word tokens. A token is a maximal run of
// letters, digits or underscores; everything else separates tokens.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
	})
}

// tokenSet returns the distinct tokens of text
func tokenSet(text string) map[string]struct{} {
	tokens := Tokenize(text)
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[tok] = struct{}{}
	}
	return set
}
