package contact

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.\S+$`)

// IsValidEmail reports whether value, once trimmed, looks like local@domain.tld.
func IsValidEmail(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	return emailPattern.MatchString(value)
}
