package logging

import (
	"strings"
	"unicode"
)

// MaskEmail keeps the first rune of the local part and the domain: "lan@example.com" -> "l***@example.com".
func MaskEmail(email string) string {
	email = strings.TrimSpace(email)
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" {
		if email == "" {
			return ""
		}
		return "***"
	}
	first := []rune(local)[0]
	return string(first) + "***@" + domain
}

// MaskPhone keeps only the last three digits: "+84 901 234 567" -> "***567".
func MaskPhone(phone string) string {
	digits := make([]rune, 0, len(phone))
	for _, r := range phone {
		if unicode.IsDigit(r) {
			digits = append(digits, r)
		}
	}
	if len(digits) == 0 {
		return ""
	}
	if len(digits) <= 3 {
		return "***"
	}
	return "***" + string(digits[len(digits)-3:])
}
