package normalizer

import "strings"

// FormatInternalCode renders an internal product code as stable text:
// no scientific notation, no stray decimal point. A non-zero width
// left-pads the digits to the ERP's fixed code length. Codes that are
// not numeric at all pass through trimmed, untouched.
func FormatInternalCode(s string, width int) string {
	trimmed := strings.TrimSpace(s)

	digits := numericDigits(trimmed)
	if digits == "" {
		return trimmed
	}

	if width > len(digits) {
		digits = zeroPad(digits, width)
	}

	return digits
}
