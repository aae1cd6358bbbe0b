package db

import "strings"

// IsUniqueViolation reports whether the error is a unique constraint
// violation. When constraintName is given only that constraint matches, so
// callers can distinguish which index fired.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if constraintName != "" {
		return strings.Contains(msg, constraintName)
	}
	return strings.Contains(msg, "duplicate key value")
}
