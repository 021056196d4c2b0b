package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseHeight(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{`5'8"`, 68, true},
		{`6'0"`, 72, true},
		{`4'11"`, 59, true},
		{"tall", 0, false},
		{"", 0, false},
		{`5' 8"`, 0, false},
		{"170cm", 0, false},
		{`5'8`, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseHeight(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAgeOn(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	age, ok := AgeFromDOB("2000-06-15", now)
	assert.True(t, ok)
	assert.Equal(t, 24, age)

	age, ok = AgeFromDOB("2000-06-16", now)
	assert.True(t, ok)
	assert.Equal(t, 23, age)

	age, ok = AgeFromDOB("2000-05-30T10:00:00Z", now)
	assert.True(t, ok)
	assert.Equal(t, 24, age)

	_, ok = AgeFromDOB("not a date", now)
	assert.False(t, ok)
}
