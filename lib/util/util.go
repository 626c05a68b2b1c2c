package util

import (
	"strings"
)

// returns true if the string explicitly represents a "true" value.
// xsd booleans accept "true" and "1"
func IsTruthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "t", "true", "yes", "1":
		return true
	default:
		return false
	}
}
