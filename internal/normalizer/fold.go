package normalizer

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer strips combining marks after NFD decomposition, so
// "Pão" reads as "Pao". Catalog names are typed by hand and accenting is
// inconsistent, so every name heuristic runs on the folded form.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldName lowercases name and removes diacritics.
func foldName(name string) string {
	folded, _, err := transform.String(foldTransformer, name)
	if err != nil {
		folded = name
	}

	return strings.ToLower(folded)
}
