package textutil

import (
	"regexp"
	"strings"
	"unicode"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// CleanText normalizes scraped text for storage and comparison: every
// whitespace rune (non-breaking spaces included) becomes a plain space, other
// non-printable runes are dropped, surrounding whitespace is trimmed and
// inner runs collapse to a single space. Case is preserved.
func CleanText(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsSpace(c) {
			newStr.WriteRune(' ')
			continue
		}
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	s = strings.Trim(newStr.String(), " \n\t")
	return whitespaceRegex.ReplaceAllString(s, " ")
}

// NormalizeName lowercases and strips all whitespace so loosely formatted
// labels ("Take away", "TAKE AWAY ") compare equal.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

func MatchName(name string, matchers []string) bool {
	name = NormalizeName(name)
	for _, m := range matchers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}
