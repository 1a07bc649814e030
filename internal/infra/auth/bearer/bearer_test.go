package bearer

import "testing"

func TestToken(t *testing.T) {
	cases := []struct {
		name  string
		value string
		want  string
	}{
		{"empty", "", ""},
		{"standard", "Bearer abc123", "abc123"},
		{"lowercase scheme", "bearer abc123", "abc123"},
		{"mixed case scheme", "BeArEr abc123", "abc123"},
		{"surrounding whitespace", "  Bearer   abc123  ", "abc123"},
		{"wrong scheme", "Basic abc123", ""},
		{"scheme only", "Bearer", ""},
		{"scheme with space only", "Bearer ", ""},
		{"no scheme", "abc123", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Token(tc.value); got != tc.want {
				t.Fatalf("Token(%q) = %q, want %q", tc.value, got, tc.want)
			}
		})
	}
}
