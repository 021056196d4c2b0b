package models

// SearchCriteria is a flat set of optional filters. Zero values mean "unset".
type SearchCriteria struct {
	Keyword            string `json:"keyword,omitempty" dynamodbav:"keyword,omitempty"`
	Gender             string `json:"gender,omitempty" dynamodbav:"gender,omitempty"`
	AgeMin             int    `json:"ageMin,omitempty" dynamodbav:"ageMin,omitempty"`
	AgeMax             int    `json:"ageMax,omitempty" dynamodbav:"ageMax,omitempty"`
	HeightMin          int    `json:"heightMin,omitempty" dynamodbav:"heightMin,omitempty"` // inches
	HeightMax          int    `json:"heightMax,omitempty" dynamodbav:"heightMax,omitempty"`
	Location           string `json:"location,omitempty" dynamodbav:"location,omitempty"`
	Education          string `json:"education,omitempty" dynamodbav:"education,omitempty"`
	Occupation         string `json:"occupation,omitempty" dynamodbav:"occupation,omitempty"`
	Religion           string `json:"religion,omitempty" dynamodbav:"religion,omitempty"`
	Caste              string `json:"caste,omitempty" dynamodbav:"caste,omitempty"`
	EatingPreference   string `json:"eatingPreference,omitempty" dynamodbav:"eatingPreference,omitempty"`
	Drinking           string `json:"drinking,omitempty" dynamodbav:"drinking,omitempty"`
	Smoking            string `json:"smoking,omitempty" dynamodbav:"smoking,omitempty"`
	RelationshipStatus string `json:"relationshipStatus,omitempty" dynamodbav:"relationshipStatus,omitempty"`
	BodyType           string `json:"bodyType,omitempty" dynamodbav:"bodyType,omitempty"`
	NewlyAdded         bool   `json:"newlyAdded,omitempty" dynamodbav:"newlyAdded,omitempty"`
	DaysBack           int    `json:"daysBack,omitempty" dynamodbav:"daysBack,omitempty"`
	SortBy             string `json:"sortBy,omitempty" dynamodbav:"sortBy,omitempty"`
	SortOrder          string `json:"sortOrder,omitempty" dynamodbav:"sortOrder,omitempty"`
}

// HasAgeFilter reports whether either age bound is set
func (c SearchCriteria) HasAgeFilter() bool {
	return c.AgeMin > 0 || c.AgeMax > 0
}

// HasHeightFilter reports whether either height bound is set
func (c SearchCriteria) HasHeightFilter() bool {
	return c.HeightMin > 0 || c.HeightMax > 0
}

// SavedSearch is a named snapshot of SearchCriteria owned by one user
type SavedSearch struct {
	ID        string         `json:"id"`
	Username  string         `json:"username,omitempty"`
	Name      string         `json:"name"`
	Criteria  SearchCriteria `json:"criteria"`
	CreatedAt string         `json:"createdAt,omitempty"`
}
