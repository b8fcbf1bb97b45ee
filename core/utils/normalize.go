package utils

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeKey derives the canonical form of a natural key from its parts.
// Each part is NFKC-normalized, trimmed, and lowercased; parts are joined
// with a unit separator so boundaries cannot collide ("ab"+"c" vs "a"+"bc").
// "Flour", "flour" and "FLOUR" all normalize to the same key part.
func NormalizeKey(parts ...string) string {
	cleaned := make([]string, len(parts))
	for i, p := range parts {
		cleaned[i] = strings.ToLower(strings.TrimSpace(norm.NFKC.String(p)))
	}
	return strings.Join(cleaned, "\x1f")
}
