package normalizer

import "testing"

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
		ok    bool
	}{
		{name: "Decimal comma", input: "19,90", want: 19.90, ok: true},
		{name: "Thousands separator", input: "1.234,56", want: 1234.56, ok: true},
		{name: "Plain dot decimal", input: "5.49", want: 5.49, ok: true},
		{name: "Integer", input: "12", want: 12, ok: true},
		{name: "Rounds to cents", input: "3,14159", want: 3.14, ok: true},
		{name: "Empty means zero", input: "", want: 0, ok: true},
		{name: "Whitespace only", input: "   ", want: 0, ok: true},
		{name: "Garbage", input: "abc", want: 0, ok: false},
		{name: "Two commas", input: "1,2,3", want: 0, ok: false},
		{name: "Negative rejected", input: "-10,00", want: 0, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParsePrice(tt.input)
			if got != tt.want {
				t.Errorf("ParsePrice(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if ok != tt.ok {
				t.Errorf("ParsePrice(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
		})
	}
}

func TestParsePromoPrice(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *float64
		ok    bool
	}{
		{name: "Decimal comma", input: "15,90", want: fptr(15.90), ok: true},
		{name: "Not rounded", input: "9,999", want: fptr(9.999), ok: true},
		{name: "Empty means no promotion", input: "", want: nil, ok: true},
		{name: "Zero means no promotion", input: "0", want: nil, ok: true},
		{name: "Formatted zero", input: "0,00", want: nil, ok: true},
		{name: "Garbage", input: "gratis", want: nil, ok: false},
		{name: "Negative rejected", input: "-5", want: nil, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParsePromoPrice(tt.input)
			checkOptionalFloat(t, "ParsePromoPrice", got, tt.want)
			if ok != tt.ok {
				t.Errorf("ParsePromoPrice(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
		})
	}
}

func TestParseStock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
		ok    bool
	}{
		{name: "Whole quantity", input: "150", want: 150, ok: true},
		{name: "Fractional quantity", input: "12,5", want: 12.5, ok: true},
		{name: "Empty means zero", input: "", want: 0, ok: true},
		{name: "Garbage", input: "muito", want: 0, ok: false},
		{name: "Negative rejected", input: "-3", want: 0, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseStock(tt.input)
			if got != tt.want {
				t.Errorf("ParseStock(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if ok != tt.ok {
				t.Errorf("ParseStock(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
		})
	}
}

func fptr(v float64) *float64 {
	return &v
}

// checkOptionalFloat compares optional values where nil means absent.
func checkOptionalFloat(t *testing.T, label string, got, want *float64) {
	t.Helper()

	if want == nil {
		if got != nil {
			t.Errorf("%s = %v, want absent", label, *got)
		}
		return
	}
	if got == nil {
		t.Errorf("%s absent, want %v", label, *want)
		return
	}
	if *got != *want {
		t.Errorf("%s = %v, want %v", label, *got, *want)
	}
}
