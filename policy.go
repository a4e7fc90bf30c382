package goVerify

import "net/mail"

// passwordMeetsPolicy checks length plus the four character classes:
// upper, lower, digit, and at least one symbol.
func passwordMeetsPolicy(pw string, minLen int) bool {
	if len(pw) < minLen {
		return false
	}

	var upper, lower, digit, symbol bool
	for _, r := range pw {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			symbol = true
		}
	}

	return upper && lower && digit && symbol
}

func validEmail(addr string) bool {
	if addr == "" {
		return false
	}
	parsed, err := mail.ParseAddress(addr)
	return err == nil && parsed.Address == addr
}
