package search

import (
	"regexp"
	"strconv"
)

var heightPattern = regexp.MustCompile(`^(\d+)'(\d+)"$`)

// ParseHeight converts a height of the exact form 5'8" into total inches.
func ParseHeight(s string) (inches int, ok bool) {
	m := heightPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	feet, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	in, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, false
	}
	return feet*12 + in, true
}
