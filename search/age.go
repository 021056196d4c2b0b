package search

import (
	"strings"
	"time"
)

var dobLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"01/02/2006",
}

// ParseDOB parses a date of birth in any of the layouts the backend has stored
func ParseDOB(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dobLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// AgeOn returns completed years between dob and now: calendar-year difference,
// minus one when now's month/day precedes the birth month/day.
func AgeOn(dob, now time.Time) int {
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age
}

// AgeFromDOB parses s and returns the age on now. ok is false when s is unparsable.
func AgeFromDOB(s string, now time.Time) (age int, ok bool) {
	dob, ok := ParseDOB(s)
	if !ok {
		return 0, false
	}
	return AgeOn(dob, now), true
}
