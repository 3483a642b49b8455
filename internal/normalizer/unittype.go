package normalizer

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/clipperhouse/uax29/v2/words"

	"catsync/internal/models"
)

var (
	packagingPattern    = regexp.MustCompile(`\b(un|unid|unidade|pct|pacote|cx|caixa|frasco|galao)\b`)
	volumePattern       = regexp.MustCompile(`\d+(ml|l)\b`)
	packedWeightPattern = regexp.MustCompile(`\d+(kg|g)\b`)
	looseWeightPattern  = regexp.MustCompile(`\b(kg|g)\b`)
)

// InferUnitType classifies how a product is sold from its name alone.
// Packaging keywords and quantity tokens ("12un", "350ml", "500g") mark
// piece-sold products, a bare kg/g token marks counter-weighed ones.
// With no cue at all the name length decides: four or more words reads
// as a described, packaged product, a short name as loose produce.
func InferUnitType(name string) models.UnitType {
	folded := foldName(name)

	if packagingPattern.MatchString(folded) {
		return models.UnitTypeUnit
	}
	if volumePattern.MatchString(folded) {
		return models.UnitTypeUnit
	}
	if packedWeightPattern.MatchString(folded) {
		return models.UnitTypeUnit
	}
	if looseWeightPattern.MatchString(folded) {
		return models.UnitTypeKilogram
	}
	if wordCount(folded) >= 4 {
		return models.UnitTypeUnit
	}

	return models.UnitTypeKilogram
}

// wordCount counts UAX-29 word tokens that carry letters or digits, so
// punctuation and spacing quirks in catalog names do not skew the
// length heuristic.
func wordCount(s string) int {
	tokens := words.FromString(s)

	n := 0
	for tokens.Next() {
		token := tokens.Value()
		if strings.ContainsFunc(token, func(r rune) bool {
			return unicode.IsLetter(r) || unicode.IsDigit(r)
		}) {
			n++
		}
	}

	return n
}
