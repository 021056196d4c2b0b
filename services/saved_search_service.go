package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"matchview/models"
	"matchview/search"
)

var (
	ErrInvalidSavedSearch = errors.New("invalid saved search")
	ErrSavedSearchUnknown = errors.New("saved search not found")
)

const maxSavedSearchName = 100

// SavedSearchService manages named criteria snapshots
type SavedSearchService struct {
	backend  *BackendClient
	searches *SearchService
}

func NewSavedSearchService(backend *BackendClient, searches *SearchService) *SavedSearchService {
	return &SavedSearchService{backend: backend, searches: searches}
}

func (s *SavedSearchService) List(ctx context.Context, sess models.Session) ([]models.SavedSearch, error) {
	return s.backend.ListSavedSearches(ctx, sess)
}

// Get finds one saved search by id
func (s *SavedSearchService) Get(ctx context.Context, sess models.Session, id string) (*models.SavedSearch, error) {
	all, err := s.backend.ListSavedSearches(ctx, sess)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrSavedSearchUnknown, id)
}

// Create saves criteria under name
func (s *SavedSearchService) Create(ctx context.Context, sess models.Session, name string, criteria models.SearchCriteria) (*models.SavedSearch, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	if err := search.Validate(criteria); err != nil {
		return nil, err
	}
	return s.backend.CreateSavedSearch(ctx, sess, name, criteria)
}

// SaveCurrent saves the viewer's current search criteria under name
func (s *SavedSearchService) SaveCurrent(ctx context.Context, sess models.Session, name string) (*models.SavedSearch, error) {
	return s.Create(ctx, sess, name, s.searches.Criteria(ctx, sess))
}

func (s *SavedSearchService) Rename(ctx context.Context, sess models.Session, id, name string) (*models.SavedSearch, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	return s.backend.RenameSavedSearch(ctx, sess, id, name)
}

func (s *SavedSearchService) Delete(ctx context.Context, sess models.Session, id string) error {
	err := s.backend.DeleteSavedSearch(ctx, sess, id)
	if IsNotFound(err) {
		return fmt.Errorf("%w: %s", ErrSavedSearchUnknown, id)
	}
	return err
}

// Apply runs a saved search as the viewer's current search
func (s *SavedSearchService) Apply(ctx context.Context, sess models.Session, id string) (*models.SearchView, error) {
	saved, err := s.Get(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	return s.searches.Run(ctx, sess, saved.Criteria)
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidSavedSearch)
	}
	if len(name) > maxSavedSearchName {
		return "", fmt.Errorf("%w: name longer than %d characters", ErrInvalidSavedSearch, maxSavedSearchName)
	}
	return name, nil
}
