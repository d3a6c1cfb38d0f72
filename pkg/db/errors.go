package db

import "strings"

// IsUniqueViolation reports whether the provided error references a unique
// constraint violation. Covers both the sqlite and postgres message formats;
// when constraintName is provided, the helper looks for it in the error text.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if constraintName != "" {
		return strings.Contains(msg, constraintName)
	}
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
