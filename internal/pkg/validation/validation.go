package validation

import (
	"regexp"
	"strings"
	"unicode"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Letters, spaces, hyphens and apostrophes.
var fullnameRe = regexp.MustCompile(`^[A-Za-z\s\-']+$`)

// Optional +91 / 0 prefix, then a 10 digit mobile number starting 6-9.
var phoneRe = regexp.MustCompile(`^(\+91|0)?[6-9]\d{9}$`)

func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// IsValidPassword requires at least 8 characters with a letter, a digit and
// a punctuation or symbol character.
func IsValidPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLetter, hasDigit, hasSpecial := false, false, false
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}
	return hasLetter && hasDigit && hasSpecial
}

func IsValidFullname(fullname string) bool {
	return fullname != "" && fullnameRe.MatchString(fullname)
}

// IsValidPhone accepts Indian mobile numbers; spaces and dashes are ignored.
func IsValidPhone(phone string) bool {
	p := strings.NewReplacer(" ", "", "-", "").Replace(phone)
	return phoneRe.MatchString(p)
}
