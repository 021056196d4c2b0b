package search

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"matchview/models"
)

func TestToQuery_StripsUnset(t *testing.T) {
	q := ToQuery(models.SearchCriteria{
		Keyword:    "  ",
		Gender:     "Female",
		AgeMin:     25,
		AgeMax:     0,
		NewlyAdded: false,
		Religion:   "",
		DaysBack:   7,
	})

	assert.Equal(t, "Female", q.Get("gender"))
	assert.Equal(t, "25", q.Get("ageMin"))
	assert.Equal(t, "7", q.Get("daysBack"))
	for _, key := range []string{"keyword", "ageMax", "newlyAdded", "religion"} {
		_, present := q[key]
		assert.False(t, present, "%s should be stripped", key)
	}

	q = ToQuery(models.SearchCriteria{NewlyAdded: true})
	assert.Equal(t, "true", q.Get("newlyAdded"))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(models.SearchCriteria{AgeMin: 20, AgeMax: 30}))
	assert.NoError(t, Validate(models.SearchCriteria{AgeMin: 30}))

	err := Validate(models.SearchCriteria{AgeMin: 31, AgeMax: 30})
	assert.True(t, errors.Is(err, ErrInvalidCriteria))

	err = Validate(models.SearchCriteria{HeightMin: 72, HeightMax: 60})
	assert.True(t, errors.Is(err, ErrInvalidCriteria))

	err = Validate(models.SearchCriteria{DaysBack: -1})
	assert.True(t, errors.Is(err, ErrInvalidCriteria))
}

func TestDefaultCriteria(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	t.Run("no viewer profile", func(t *testing.T) {
		c := DefaultCriteria(nil, now)
		assert.Equal(t, models.SearchCriteria{SortBy: "newest"}, c)
	})

	t.Run("biased from viewer", func(t *testing.T) {
		c := DefaultCriteria(&models.UserSummary{Sex: "Male", DOB: "1994-01-01", Height: `5'10"`}, now)
		assert.Equal(t, "Female", c.Gender)
		assert.Equal(t, 25, c.AgeMin)
		assert.Equal(t, 35, c.AgeMax)
		assert.Equal(t, 64, c.HeightMin)
		assert.Equal(t, 76, c.HeightMax)
	})

	t.Run("age floor is adult", func(t *testing.T) {
		c := DefaultCriteria(&models.UserSummary{Sex: "female", DOB: "2004-01-01"}, now)
		assert.Equal(t, "Male", c.Gender)
		assert.Equal(t, 18, c.AgeMin)
		assert.Equal(t, 25, c.AgeMax)
		assert.Zero(t, c.HeightMin)
	})
}
