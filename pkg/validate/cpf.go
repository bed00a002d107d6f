package validate

import "strings"

// IsValidCPF validates a Brazilian CPF by its two mod-11 check digits.
// Both check digits are a weighted sum of the preceding digits, multiplied
// by 10 modulo 11, with results of 10 or 11 mapped to 0.
func IsValidCPF(cpf string) bool {
	cleaned := stripNonDigits(cpf)
	if len(cleaned) != 11 {
		return false
	}
	if allSameDigit(cleaned) {
		return false
	}

	if checkDigit(cleaned, 9, 10) != int(cleaned[9]-'0') {
		return false
	}
	if checkDigit(cleaned, 10, 11) != int(cleaned[10]-'0') {
		return false
	}
	return true
}

// StripCPF returns the digits-only form of a CPF for storage and forwarding.
func StripCPF(cpf string) string {
	return stripNonDigits(cpf)
}

func checkDigit(digits string, n, startWeight int) int {
	sum := 0
	for i := 0; i < n; i++ {
		sum += int(digits[i]-'0') * (startWeight - i)
	}
	remainder := (sum * 10) % 11
	if remainder == 10 || remainder == 11 {
		remainder = 0
	}
	return remainder
}

func stripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func allSameDigit(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}
