// Package bearer extracts the credential from an Authorization header.
package bearer

import "strings"

// Token returns the bearer credential carried by an Authorization header
// value, or "" when the header is missing, malformed, or uses another
// scheme. The scheme match is case-insensitive.
func Token(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(value), "bearer ") {
		return ""
	}
	return strings.TrimSpace(value[len("bearer "):])
}
