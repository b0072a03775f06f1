// Package phone normalizes Ethiopian phone numbers to international format.
// Stored recipient numbers are always normalized before any SMS is attempted,
// so the gateway adapter can assume +2519XXXXXXXX input.
package phone

import (
	"errors"
	"strings"
)

const CountryCode = "+251"

var ErrInvalid = errors.New("invalid phone number")

// Normalize converts the accepted local formats to +251 international form:
//
//	+251912345678 -> +251912345678 (already normalized)
//	251912345678  -> +251912345678
//	0912345678    -> +251912345678
//	912345678     -> +251912345678
//
// Anything else is rejected.
func Normalize(raw string) (string, error) {
	cleaned := digitsOf(raw)
	if cleaned == "" {
		return "", ErrInvalid
	}

	switch {
	case strings.HasPrefix(cleaned, "251") && len(cleaned) == 12:
		return "+" + cleaned, nil
	case strings.HasPrefix(cleaned, "0") && len(cleaned) == 10:
		return CountryCode + cleaned[1:], nil
	case len(cleaned) == 9 && cleaned[0] == '9':
		return CountryCode + cleaned, nil
	default:
		return "", ErrInvalid
	}
}

// IsNormalized reports whether s is already in +2519XXXXXXXX form.
func IsNormalized(s string) bool {
	return strings.HasPrefix(s, CountryCode) && len(s) == 13 && digitsOf(s) == s[1:]
}

func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
