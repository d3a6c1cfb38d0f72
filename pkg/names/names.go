// Package names holds the normalization rule shared by every component that
// compares entity names: dedupe on import, seed reconciliation, reference
// resolution and duplicate-name guards all key on the same normalized form.
package names

import "strings"

// Normalize lowercases a display name and collapses surrounding/internal
// whitespace. The result is used for comparison only; stored values keep
// their original casing.
func Normalize(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// IsEmpty reports whether the name normalizes to nothing.
func IsEmpty(name string) bool {
	return Normalize(name) == ""
}
