package models

import (
	"encoding/json"
	"sort"
)

// RelationKind names one of the viewer-scoped relationship sets
type RelationKind string

const (
	RelationFavorites  RelationKind = "favorites"
	RelationShortlist  RelationKind = "shortlist"
	RelationExclusions RelationKind = "exclusions"
)

// RelationKinds lists every kind in a stable order
var RelationKinds = []RelationKind{RelationFavorites, RelationShortlist, RelationExclusions}

// Valid reports whether k is a known relationship kind
func (k RelationKind) Valid() bool {
	switch k {
	case RelationFavorites, RelationShortlist, RelationExclusions:
		return true
	}
	return false
}

// UsernameSet is a set of usernames
type UsernameSet map[string]struct{}

// NewUsernameSet builds a set from names, skipping empty strings
func NewUsernameSet(names ...string) UsernameSet {
	s := make(UsernameSet, len(names))
	for _, n := range names {
		if n != "" {
			s[n] = struct{}{}
		}
	}
	return s
}

func (s UsernameSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

func (s UsernameSet) Add(name string) { s[name] = struct{}{} }

func (s UsernameSet) Remove(name string) { delete(s, name) }

// List returns the members sorted
func (s UsernameSet) List() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func (s UsernameSet) Clone() UsernameSet {
	c := make(UsernameSet, len(s))
	for n := range s {
		c[n] = struct{}{}
	}
	return c
}

// MarshalJSON renders the set as a sorted array
func (s UsernameSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.List())
}

// RelationshipSet holds the three per-viewer sets
type RelationshipSet struct {
	Favorites  UsernameSet `json:"favorites"`
	Shortlist  UsernameSet `json:"shortlist"`
	Exclusions UsernameSet `json:"exclusions"`
}

func NewRelationshipSet() *RelationshipSet {
	return &RelationshipSet{
		Favorites:  UsernameSet{},
		Shortlist:  UsernameSet{},
		Exclusions: UsernameSet{},
	}
}

// Set returns the set for kind, or nil for an unknown kind
func (r *RelationshipSet) Set(kind RelationKind) UsernameSet {
	switch kind {
	case RelationFavorites:
		return r.Favorites
	case RelationShortlist:
		return r.Shortlist
	case RelationExclusions:
		return r.Exclusions
	}
	return nil
}

// Clone deep-copies the three sets
func (r *RelationshipSet) Clone() RelationshipSet {
	return RelationshipSet{
		Favorites:  r.Favorites.Clone(),
		Shortlist:  r.Shortlist.Clone(),
		Exclusions: r.Exclusions.Clone(),
	}
}
