package pii

import (
	"strings"
	"unicode"

	"matchview/models"
)

// MaskEmail keeps the first character of the local part and the domain.
// Values without an @ are not addresses and come back unchanged.
func MaskEmail(email string) string {
	email = strings.TrimSpace(email)
	local, domain, ok := strings.Cut(email, "@")
	if !ok {
		return email
	}
	first, _ := firstRune(local)
	return first + "***@" + domain
}

// MaskPhone keeps the last four digits, ignoring any extension
func MaskPhone(phone string) string {
	if phone == "" {
		return ""
	}
	number, _, _ := strings.Cut(phone, "ext")
	var digits []rune
	for _, r := range number {
		if unicode.IsDigit(r) {
			digits = append(digits, r)
		}
	}
	if len(digits) < 4 {
		return "***"
	}
	return "***-***-" + string(digits[len(digits)-4:])
}

// MaskContact blanks contact fields unless contact access is approved.
// The viewer's own profile is never masked.
func MaskContact(u models.UserSummary, viewer string, access AccessMap) models.UserSummary {
	if u.Username == viewer || access.Has(u.Username, models.PiiTypeContactInfo) {
		return u
	}
	u.ContactEmail = MaskEmail(u.ContactEmail)
	u.ContactNumber = MaskPhone(u.ContactNumber)
	return u
}

func firstRune(s string) (string, bool) {
	for _, r := range s {
		return string(r), true
	}
	return "", false
}
