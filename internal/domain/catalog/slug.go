package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify derives the attribute slug from a source option name: case
// folded, diacritics stripped, runs of non-alphanumerics collapsed to
// single hyphens. Deterministic, so every run of the sync maps an option
// name to the same global attribute.
func Slugify(name string) string {
	folded := cases.Fold().String(name)
	if stripped, _, err := transform.String(deaccent, folded); err == nil {
		folded = stripped
	}

	var b strings.Builder
	pendingHyphen := false
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		default:
			pendingHyphen = true
		}
	}
	return b.String()
}
