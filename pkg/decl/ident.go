package decl

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Words splits a raw key into identifier words. Accents are stripped
// ("café" → "cafe"), every rune that is neither a letter nor a digit
// separates words, and camelCase or PascalCase humps start a new word.
func Words(raw string) []string {
	folded := fold(raw)

	var (
		words []string
		cur   []rune
	)
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}

	rs := []rune(folded)
	for i, r := range rs {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if len(cur) > 0 && unicode.IsUpper(r) {
			prev := rs[i-1]
			nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
			// fooBar → foo|Bar, HTTPServer → HTTP|Server
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func fold(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		return s
	}
	return out
}

// PascalCase joins words with each word capitalized: "doubly_nested" →
// "DoublyNested".
func PascalCase(raw string) string {
	var sb strings.Builder
	for _, w := range Words(raw) {
		sb.WriteString(capitalize(w))
	}
	return sb.String()
}

// CamelCase is PascalCase with a lower-case first word.
func CamelCase(raw string) string {
	var sb strings.Builder
	for i, w := range Words(raw) {
		if i == 0 {
			sb.WriteString(strings.ToLower(w))
			continue
		}
		sb.WriteString(capitalize(w))
	}
	return sb.String()
}

// SnakeCase joins lower-cased words with underscores: "inArray" → "in_array".
func SnakeCase(raw string) string {
	words := Words(raw)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return strings.Join(words, "_")
}

func capitalize(w string) string {
	r, size := utf8.DecodeRuneInString(w)
	if r == utf8.RuneError {
		return w
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
}

// IsIdentifier reports whether s is a bare identifier in the common
// C-family sense: a letter or underscore followed by letters, digits and
// underscores.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}

// LeadingLetter prefixes s when it starts with a digit, which no target
// accepts as the first rune of an identifier.
func LeadingLetter(s, prefix string) string {
	r, _ := utf8.DecodeRuneInString(s)
	if unicode.IsDigit(r) {
		return prefix + s
	}
	return s
}
