package search

import (
	"strings"
	"time"

	"matchview/models"
)

// UnparsablePolicy decides the fate of a record whose dob or height cannot be
// parsed while the matching filter is active. Inactive filters never look at the
// field, so the policy only matters when a bound is set.
type UnparsablePolicy int

const (
	// DropUnparsable fails closed: an unverifiable record fails the filter.
	DropUnparsable UnparsablePolicy = iota
	// KeepUnparsable lets an unverifiable record through that one filter.
	KeepUnparsable
)

func (p UnparsablePolicy) String() string {
	if p == KeepUnparsable {
		return "keep"
	}
	return "drop"
}

// ParseUnparsablePolicy maps "keep"/"drop" to a policy; anything else is DropUnparsable
func ParseUnparsablePolicy(s string) UnparsablePolicy {
	if strings.EqualFold(strings.TrimSpace(s), "keep") {
		return KeepUnparsable
	}
	return DropUnparsable
}

// Options carries the inputs FilterResults must not read from the environment
type Options struct {
	Now        time.Time
	Unparsable UnparsablePolicy
}

// FilterResults returns the users that survive exclusion, age, height and keyword
// filtering, in their original relative order. The result is a new slice.
func FilterResults(users []models.UserSummary, criteria models.SearchCriteria, excluded models.UsernameSet, opts Options) []models.UserSummary {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	keyword := strings.ToLower(criteria.Keyword)

	out := make([]models.UserSummary, 0, len(users))
	for _, u := range users {
		if excluded.Has(u.Username) {
			continue
		}
		if criteria.HasAgeFilter() && !matchesAge(u, criteria, now, opts.Unparsable) {
			continue
		}
		if criteria.HasHeightFilter() && !matchesHeight(u, criteria, opts.Unparsable) {
			continue
		}
		if keyword != "" && !strings.Contains(searchableText(u), keyword) {
			continue
		}
		out = append(out, u)
	}
	return out
}

func matchesAge(u models.UserSummary, c models.SearchCriteria, now time.Time, policy UnparsablePolicy) bool {
	age, ok := AgeFromDOB(u.DOB, now)
	if !ok {
		return policy == KeepUnparsable
	}
	return inRange(age, c.AgeMin, c.AgeMax)
}

func matchesHeight(u models.UserSummary, c models.SearchCriteria, policy UnparsablePolicy) bool {
	inches, ok := ParseHeight(u.Height)
	if !ok {
		return policy == KeepUnparsable
	}
	return inRange(inches, c.HeightMin, c.HeightMax)
}

// inRange checks inclusive bounds; a zero bound is unset
func inRange(v, lo, hi int) bool {
	if lo > 0 && v < lo {
		return false
	}
	if hi > 0 && v > hi {
		return false
	}
	return true
}

func searchableText(u models.UserSummary) string {
	return strings.ToLower(strings.Join([]string{
		u.FirstName,
		u.LastName,
		u.Username,
		u.Location,
		u.Education,
		u.Occupation,
		u.AboutYou,
		u.Bio,
		u.Interests.Join(" "),
	}, " "))
}
