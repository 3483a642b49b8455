// Package normalizer provides the field conversion rules that turn raw
// catalog cells into canonical product values.
//
// Every converter is total: malformed input degrades to a zero or absent
// value instead of an error. A bad cell costs one field, never the row.
// Converters that can detect damage also report it with a second return
// value so the caller can record the anomaly.
package normalizer

import (
	"math"
	"strconv"
	"strings"
)

// parseDecimal reads a Brazilian-locale decimal ("19,90", "1.234,56").
// When a decimal comma is present, dots are thousands separators and are
// dropped. The second return reports whether the text was numeric.
func parseDecimal(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}

	return v, true
}

// ParsePrice converts a regular price cell, rounded to 2 decimal places.
// An empty cell means zero. Non-numeric or negative input also becomes
// zero, with ok false so the caller can log the anomaly.
func ParsePrice(s string) (float64, bool) {
	if strings.TrimSpace(s) == "" {
		return 0, true
	}

	v, numeric := parseDecimal(s)
	if !numeric || v < 0 {
		return 0, false
	}

	return round2(v), true
}

// ParsePromoPrice converts a promotional price cell. Empty and "0" both
// mean no promotion and map to nil; non-numeric or negative input maps
// to nil with ok false.
func ParsePromoPrice(s string) (*float64, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || trimmed == "0" {
		return nil, true
	}

	v, numeric := parseDecimal(trimmed)
	if !numeric || v < 0 {
		return nil, false
	}
	if v == 0 {
		return nil, true
	}

	return &v, true
}

// ParseStock converts a stock quantity cell. Empty means zero stock;
// non-numeric or negative input becomes zero with ok false.
func ParseStock(s string) (float64, bool) {
	if strings.TrimSpace(s) == "" {
		return 0, true
	}

	v, numeric := parseDecimal(s)
	if !numeric || v < 0 {
		return 0, false
	}

	return v, true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
