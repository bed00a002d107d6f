package validate

import (
	"regexp"
	"strings"
)

const (
	maxInputLen = 1000
	maxEmailLen = 254
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// SanitizeInput trims whitespace, strips angle brackets and caps the length
// of free-text input before it is stored or forwarded anywhere.
func SanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "<", "")
	s = strings.ReplaceAll(s, ">", "")
	if len(s) > maxInputLen {
		s = s[:maxInputLen]
	}
	return s
}

func IsValidEmail(email string) bool {
	return len(email) <= maxEmailLen && emailRe.MatchString(email)
}
