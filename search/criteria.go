package search

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"matchview/models"
)

// ErrInvalidCriteria is returned by Validate
var ErrInvalidCriteria = errors.New("invalid search criteria")

// ToQuery renders criteria as backend query parameters. Empty strings, zero
// numbers and false booleans are unset and left out.
func ToQuery(c models.SearchCriteria) url.Values {
	q := url.Values{}
	setString := func(key, v string) {
		if v = strings.TrimSpace(v); v != "" {
			q.Set(key, v)
		}
	}
	setInt := func(key string, v int) {
		if v > 0 {
			q.Set(key, strconv.Itoa(v))
		}
	}

	setString("keyword", c.Keyword)
	setString("gender", c.Gender)
	setInt("ageMin", c.AgeMin)
	setInt("ageMax", c.AgeMax)
	setInt("heightMin", c.HeightMin)
	setInt("heightMax", c.HeightMax)
	setString("location", c.Location)
	setString("education", c.Education)
	setString("occupation", c.Occupation)
	setString("religion", c.Religion)
	setString("caste", c.Caste)
	setString("eatingPreference", c.EatingPreference)
	setString("drinking", c.Drinking)
	setString("smoking", c.Smoking)
	setString("relationshipStatus", c.RelationshipStatus)
	setString("bodyType", c.BodyType)
	if c.NewlyAdded {
		q.Set("newlyAdded", "true")
	}
	setInt("daysBack", c.DaysBack)
	setString("sortBy", c.SortBy)
	setString("sortOrder", c.SortOrder)
	return q
}

// Validate rejects negative bounds and inverted ranges
func Validate(c models.SearchCriteria) error {
	if c.AgeMin < 0 || c.AgeMax < 0 || c.HeightMin < 0 || c.HeightMax < 0 || c.DaysBack < 0 {
		return fmt.Errorf("%w: bounds must not be negative", ErrInvalidCriteria)
	}
	if c.AgeMin > 0 && c.AgeMax > 0 && c.AgeMin > c.AgeMax {
		return fmt.Errorf("%w: ageMin %d exceeds ageMax %d", ErrInvalidCriteria, c.AgeMin, c.AgeMax)
	}
	if c.HeightMin > 0 && c.HeightMax > 0 && c.HeightMin > c.HeightMax {
		return fmt.Errorf("%w: heightMin %d exceeds heightMax %d", ErrInvalidCriteria, c.HeightMin, c.HeightMax)
	}
	return nil
}

const (
	minAdultAge   = 18
	ageSpread     = 5
	heightSpread  = 6
	defaultSortBy = "newest"
)

// DefaultCriteria builds page-load defaults. With a viewer profile the defaults
// lean toward the opposite gender and a band around the viewer's age and height.
func DefaultCriteria(viewer *models.UserSummary, now time.Time) models.SearchCriteria {
	c := models.SearchCriteria{SortBy: defaultSortBy}
	if viewer == nil {
		return c
	}

	switch strings.ToLower(strings.TrimSpace(viewer.Sex)) {
	case "male":
		c.Gender = "Female"
	case "female":
		c.Gender = "Male"
	}

	if age, ok := AgeFromDOB(viewer.DOB, now); ok {
		c.AgeMin = max(minAdultAge, age-ageSpread)
		c.AgeMax = max(c.AgeMin, age+ageSpread)
	}
	if inches, ok := ParseHeight(viewer.Height); ok {
		c.HeightMin = max(1, inches-heightSpread)
		c.HeightMax = inches + heightSpread
	}
	return c
}
