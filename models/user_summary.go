package models

import (
	"encoding/json"
	"strings"
)

// UserSummary is the denormalized profile record returned by the backend search endpoint
type UserSummary struct {
	Username         string     `json:"username"`
	FirstName        string     `json:"firstName,omitempty"`
	LastName         string     `json:"lastName,omitempty"`
	DOB              string     `json:"dob,omitempty"`
	Height           string     `json:"height,omitempty"` // formatted, e.g. 5'8"
	Sex              string     `json:"sex,omitempty"`
	Location         string     `json:"location,omitempty"`
	Education        string     `json:"education,omitempty"`
	Occupation       string     `json:"occupation,omitempty"`
	AboutYou         string     `json:"aboutYou,omitempty"`
	Bio              string     `json:"bio,omitempty"`
	Interests        StringList `json:"interests,omitempty"`
	Images           []string   `json:"images,omitempty"`
	Religion         string     `json:"religion,omitempty"`
	EatingPreference string     `json:"eatingPreference,omitempty"`
	BodyType         string     `json:"bodyType,omitempty"`
	Role             string     `json:"role,omitempty"`
	CreatedAt        string     `json:"createdAt,omitempty"`
	ContactEmail     string     `json:"contactEmail,omitempty"` // gated by contact_info access
	ContactNumber    string     `json:"contactNumber,omitempty"`
}

// StringList decodes either a JSON string or a JSON array of strings.
// The backend has stored interests both ways over time.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler
func (s *StringList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		if v == "" {
			*s = nil
		} else {
			*s = StringList{v}
		}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*s = list
	return nil
}

// Join concatenates the entries with sep
func (s StringList) Join(sep string) string {
	return strings.Join(s, sep)
}

// SearchResponse is the backend's GET /search payload
type SearchResponse struct {
	Users      []UserSummary `json:"users"`
	Total      int           `json:"total"`
	Page       int           `json:"page,omitempty"`
	Limit      int           `json:"limit,omitempty"`
	TotalPages int           `json:"totalPages,omitempty"`
}

// SearchResult is one row of a rendered search page
type SearchResult struct {
	UserSummary
	IsFavorited   bool   `json:"isFavorited"`
	IsShortlisted bool   `json:"isShortlisted"`
	IsOnline      bool   `json:"isOnline"`
	ContactAccess string `json:"contactAccess"` // absent, pending, approved
	ImageAccess   string `json:"imageAccess"`
}

// SearchView is one page of the viewer's filtered search buffer
type SearchView struct {
	Results      []SearchResult `json:"results"`
	Criteria     SearchCriteria `json:"criteria"`
	Page         int            `json:"page"`
	PageSize     int            `json:"pageSize"`
	TotalPages   int            `json:"totalPages"`
	TotalResults int            `json:"totalResults"` // after client-side filtering
	ServerTotal  int            `json:"serverTotal"`
	Buffered     int            `json:"buffered"`
	CanLoadMore  bool           `json:"canLoadMore"`
	Generation   uint64         `json:"generation"`
}
