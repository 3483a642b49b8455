package normalizer

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"catsync/pkg/ean"
)

// Spreadsheet exports damage barcodes: a numeric column turns
// "7891234567894" into "7891234567894.0" or scientific notation.
var (
	trailingFractionPattern = regexp.MustCompile(`^(\d+)[.,]0+$`)
	bareDigitsPattern       = regexp.MustCompile(`^\d+$`)
	scientificPattern       = regexp.MustCompile(`^\d+(?:[.,]\d+)?[eE]\+?\d+$`)
)

// FormatBarcode normalizes a raw barcode cell into the list form the
// destination API expects: one valid EAN code, or an empty list when the
// value cannot be made valid.
//
// Full-length 13-digit codes pass through on length alone, matching the
// documented schema. Anything shorter is only trusted when it carries or
// earns a valid check digit: 8 digits must check out as EAN-8, 7 digits
// pad to EAN-8, 9 to 12 digits pad to EAN-13.
func FormatBarcode(s string) []string {
	digits := numericDigits(s)
	if digits == "" {
		return []string{}
	}

	switch n := len(digits); {
	case n == ean.Length13:
		return []string{digits}
	case n == ean.Length8:
		if ean.Valid(digits) {
			return []string{digits}
		}
	case n == ean.Length8-1:
		if padded := zeroPad(digits, ean.Length8); ean.Valid(padded) {
			return []string{padded}
		}
	case n > ean.Length8 && n < ean.Length13:
		if padded := zeroPad(digits, ean.Length13); ean.Valid(padded) {
			return []string{padded}
		}
	}

	return []string{}
}

// numericDigits undoes spreadsheet float artifacts and returns the bare
// digit string, or "" when the cell does not hold a whole number.
func numericDigits(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	if m := trailingFractionPattern.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	if bareDigitsPattern.MatchString(s) {
		return s
	}
	if scientificPattern.MatchString(s) {
		v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
		// Above 1e15 float64 no longer holds every integer, so the
		// expansion would fabricate digits.
		if err == nil && v > 0 && v < 1e15 && v == math.Trunc(v) {
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}

	return ""
}

func zeroPad(digits string, width int) string {
	return strings.Repeat("0", width-len(digits)) + digits
}
