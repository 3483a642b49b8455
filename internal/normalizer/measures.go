package normalizer

import (
	"regexp"
	"strconv"
	"strings"
)

// Measures holds the optional weight and dimension values parsed from a
// product name. Weight is grams, dimensions are centimeters.
type Measures struct {
	Weight *float64
	Length *float64
	Width  *float64
	Height *float64
}

// The leading (?:^|[^\d]) group stands in for a lookbehind, which RE2
// does not support: it keeps a quantity from starting mid-number. Digit
// runs are capped at five so barcode-sized numbers never read as
// measurements.
var (
	weightPattern = regexp.MustCompile(
		`(?:^|[^\d])(\d{1,5}(?:[.,]\d+)?)\s*(kg|g)\b`)
	dimensionPattern = regexp.MustCompile(
		`(?:^|[^\d])(\d{1,5}(?:[.,]\d+)?)\s*(cm|m)?\s*[x/]\s*(\d{1,5}(?:[.,]\d+)?)\s*(cm|m)?(?:\s*[x/]\s*(\d{1,5}(?:[.,]\d+)?)\s*(cm|m)?)?`)
)

// ParseMeasures scans a product name for embedded weight ("500G",
// "1,5KG") and dimension ("30X20X10CM", "2M X 1M") tokens. Kilograms
// convert to grams and meters to centimeters. A dimension group only
// counts when at least one explicit cm/m unit appears, so pack counts
// like "2x4" are not mistaken for sizes. Names without recognizable
// tokens yield all-absent values; the function never fails.
func ParseMeasures(name string) Measures {
	var m Measures
	folded := foldName(name)

	if w := weightPattern.FindStringSubmatch(folded); w != nil {
		v := decimalValue(w[1])
		if w[2] == "kg" {
			v *= 1000
		}
		v = round3(v)
		m.Weight = &v
	}

	for _, d := range dimensionPattern.FindAllStringSubmatch(folded, -1) {
		values := []string{d[1], d[3], d[5]}
		units := []string{d[2], d[4], d[6]}
		if units[0] == "" && units[1] == "" && units[2] == "" {
			continue
		}

		// A trailing unit covers the numbers before it: "30x20x10cm"
		// is centimeters three times over. Numbers right of the last
		// unit inherit the nearest one to their left.
		carry := ""
		for i := len(units) - 1; i >= 0; i-- {
			if units[i] == "" {
				units[i] = carry
			} else {
				carry = units[i]
			}
		}
		for i := range units {
			if units[i] == "" {
				units[i] = carry
			}
		}

		m.Length = dimensionValue(values[0], units[0])
		m.Width = dimensionValue(values[1], units[1])
		m.Height = dimensionValue(values[2], units[2])
		break
	}

	return m
}

func dimensionValue(value, unit string) *float64 {
	if value == "" {
		return nil
	}

	v := decimalValue(value)
	if unit == "m" {
		v *= 100
	}
	v = round3(v)

	return &v
}

// decimalValue converts a regex-captured quantity; the pattern already
// guarantees the form.
func decimalValue(s string) float64 {
	v, _ := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	return v
}
