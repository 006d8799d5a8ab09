package assertion

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func digitsOf(value string) string {
	var b strings.Builder
	for _, r := range value {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func allSame(digits string) bool {
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			return false
		}
	}
	return true
}

// Email fails when email is blank or not shaped like local@domain.tld
func Email(email, message string) error {
	if strings.TrimSpace(email) == "" {
		return fail("email cannot be empty")
	}
	if !emailPattern.MatchString(email) {
		return fail(message)
	}
	return nil
}

// CPF fails unless value holds 11 digits that are not all the same. Punctuation is ignored.
func CPF(value, message string) error {
	return taxID(value, 11, "CPF cannot be empty", message)
}

// CNPJ fails unless value holds 14 digits that are not all the same. Punctuation is ignored.
func CNPJ(value, message string) error {
	return taxID(value, 14, "CNPJ cannot be empty", message)
}

func taxID(value string, size int, emptyMessage, message string) error {
	if strings.TrimSpace(value) == "" {
		return fail(emptyMessage)
	}
	digits := digitsOf(value)
	if len(digits) != size || allSame(digits) {
		return fail(message)
	}
	return nil
}

// URL fails unless raw is an absolute http or https URL
func URL(raw, message string) error {
	if strings.TrimSpace(raw) == "" {
		return fail("url cannot be empty")
	}
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return fail(message)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fail(message)
	}
	return nil
}

// PhoneNumber fails unless phone holds 10 or 11 digits (area code plus number)
func PhoneNumber(phone, message string) error {
	if strings.TrimSpace(phone) == "" {
		return fail("phone number cannot be empty")
	}
	n := len(digitsOf(phone))
	if n < 10 || n > 11 {
		return fail(message)
	}
	return nil
}
