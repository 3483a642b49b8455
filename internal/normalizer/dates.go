package normalizer

import (
	"regexp"
	"strings"
	"time"
)

// monthsPtBR maps the Portuguese month abbreviations the ERP export
// writes in promotion dates ("31-MAR-24").
var monthsPtBR = map[string]time.Month{
	"jan": time.January,
	"fev": time.February,
	"mar": time.March,
	"abr": time.April,
	"mai": time.May,
	"jun": time.June,
	"jul": time.July,
	"ago": time.August,
	"set": time.September,
	"out": time.October,
	"nov": time.November,
	"dez": time.December,
}

var (
	numericDatePattern = regexp.MustCompile(`^(\d{1,2})[/.-](\d{1,2})[/.-](\d{2,4})$`)
	compactDatePattern = regexp.MustCompile(`^(\d{2})(\d{2})(\d{4})$`)
	namedMonthPattern  = regexp.MustCompile(`^(\d{1,2})[/.-]?([a-z]{3})[/.-]?(\d{2,4})$`)
	isoDatePattern     = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})(?:[Tt ].*)?$`)
)

// datePlaceholders are the "no promotion" spellings that mean absent,
// compared after folding.
var datePlaceholders = map[string]bool{
	"":             true,
	"-":            true,
	"nan":          true,
	"n/a":          true,
	"na":           true,
	"sem promocao": true,
	"sem data":     true,
	"no promotion": true,
}

// rangeSeparators split a promotion period into its two ends. The
// Portuguese "até" folds to "ate" before matching.
var rangeSeparators = []string{" a ", " ate ", " to "}

// ToISODate converts day/month/year free text into ISO 8601 date text:
// "25/12/2024" becomes "2024-12-25". Dot and dash separators, missing
// separators ("25122024"), two-digit years and Portuguese month
// abbreviations ("31-MAR-24", "31MAR24") are all tolerated, as is
// already-ISO input with or without a time part. Returns "" when the
// text is not a recognizable calendar date.
func ToISODate(s string) string {
	trimmed := strings.TrimSpace(foldName(s))
	if datePlaceholders[trimmed] {
		return ""
	}

	if m := isoDatePattern.FindStringSubmatch(trimmed); m != nil {
		return isoDate(atoi(m[1]), atoi(m[2]), atoi(m[3]))
	}
	if m := numericDatePattern.FindStringSubmatch(trimmed); m != nil {
		return isoDate(atoi(m[3]), atoi(m[2]), atoi(m[1]))
	}
	if m := compactDatePattern.FindStringSubmatch(trimmed); m != nil {
		return isoDate(atoi(m[3]), atoi(m[2]), atoi(m[1]))
	}
	if m := namedMonthPattern.FindStringSubmatch(trimmed); m != nil {
		month, known := monthsPtBR[m[2]]
		if !known {
			return ""
		}
		return isoDate(atoi(m[3]), int(month), atoi(m[1]))
	}

	return ""
}

// ParsePromoDates reads the promotion period cell. A range ("02/12/2024
// a 25/12/2024", or the legacy export's "ISO/ISO" form) yields both
// ends; a single date is the promotion end; placeholders yield neither.
// ok is false only when a non-placeholder text held no recognizable
// date at all.
func ParsePromoDates(s string) (start, end *string, ok bool) {
	trimmed := strings.TrimSpace(foldName(s))
	if datePlaceholders[trimmed] {
		return nil, nil, true
	}

	if from, to, found := splitRange(trimmed); found {
		start = isoOrNil(from)
		end = isoOrNil(to)
		return start, end, start != nil || end != nil
	}

	end = isoOrNil(trimmed)
	return nil, end, end != nil
}

func splitRange(s string) (from, to string, found bool) {
	for _, sep := range rangeSeparators {
		if i := strings.Index(s, sep); i >= 0 {
			return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+len(sep):]), true
		}
	}

	// The legacy export wrote ranges as two ISO timestamps joined by a
	// slash. Day/month/year dates always carry two slashes, so a single
	// slash with an ISO side is a range.
	if strings.Count(s, "/") == 1 {
		parts := strings.SplitN(s, "/", 2)
		from = strings.TrimSpace(parts[0])
		to = strings.TrimSpace(parts[1])
		if isoDatePattern.MatchString(from) || isoDatePattern.MatchString(to) {
			return from, to, true
		}
	}

	return "", "", false
}

func isoOrNil(s string) *string {
	if iso := ToISODate(s); iso != "" {
		return &iso
	}
	return nil
}

// isoDate validates the calendar date and renders it, expanding
// two-digit years into the 2000s. Returns "" for impossible dates.
func isoDate(year, month, day int) string {
	if year < 100 {
		year += 2000
	}

	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || d.Month() != time.Month(month) || d.Day() != day {
		return ""
	}

	return d.Format("2006-01-02")
}

// atoi converts regex-captured digits; the patterns already guarantee
// the form.
func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
