package normalizer

import "testing"

func TestFormatInternalCode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		width int
		want  string
	}{
		{name: "Plain digits", input: "1234", width: 0, want: "1234"},
		{name: "Trailing fraction artifact", input: "1234.0", width: 0, want: "1234"},
		{name: "Scientific notation", input: "1.2345e+5", width: 0, want: "123450"},
		{name: "Zero padded to width", input: "42", width: 6, want: "000042"},
		{name: "Already at width", input: "123456", width: 6, want: "123456"},
		{name: "Wider than width", input: "1234567", width: 6, want: "1234567"},
		{name: "Whitespace trimmed", input: " 99 ", width: 0, want: "99"},
		{name: "Alphanumeric passes through", input: "AB-123", width: 6, want: "AB-123"},
		{name: "Empty", input: "", width: 0, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatInternalCode(tt.input, tt.width); got != tt.want {
				t.Errorf("FormatInternalCode(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.want)
			}
		})
	}
}

func TestParseVisible(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "Numeric true", input: "1", want: true},
		{name: "Numeric false", input: "0", want: false},
		{name: "Boolean true", input: "true", want: true},
		{name: "Boolean false uppercase", input: "FALSE", want: false},
		{name: "Portuguese no", input: "Não", want: false},
		{name: "Portuguese yes", input: "Sim", want: true},
		{name: "Inactive keyword", input: "inativo", want: false},
		{name: "Empty defaults to visible", input: "", want: true},
		{name: "Unknown defaults to visible", input: "talvez", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseVisible(tt.input); got != tt.want {
				t.Errorf("ParseVisible(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
