// Package ean implements GTIN check-digit arithmetic for EAN-8 and EAN-13 barcodes.
package ean

import (
	"errors"
	"fmt"
)

const (
	// Length8 is the digit count of an EAN-8 code.
	Length8 = 8
	// Length13 is the digit count of an EAN-13 code.
	Length13 = 13
)

// ErrNotDigits indicates the code contains characters other than 0-9.
var ErrNotDigits = errors.New("barcode contains non-digit characters")

// CheckDigit returns the modulo-10 check digit for payload, the digits of
// a code without its final digit. Weights alternate 3,1 starting from the
// rightmost payload digit, per GS1.
func CheckDigit(payload string) (int, error) {
	if payload == "" {
		return 0, fmt.Errorf("%w: empty payload", ErrNotDigits)
	}

	sum := 0
	weight := 3
	for i := len(payload) - 1; i >= 0; i-- {
		d := payload[i]
		if d < '0' || d > '9' {
			return 0, fmt.Errorf("%w: %q", ErrNotDigits, payload)
		}
		sum += int(d-'0') * weight
		weight = 4 - weight
	}

	return (10 - sum%10) % 10, nil
}

// Valid reports whether code is a checksum-valid EAN-8 or EAN-13.
func Valid(code string) bool {
	if len(code) != Length8 && len(code) != Length13 {
		return false
	}

	check, err := CheckDigit(code[:len(code)-1])
	if err != nil {
		return false
	}

	return int(code[len(code)-1]-'0') == check
}
