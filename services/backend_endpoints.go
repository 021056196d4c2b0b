package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"matchview/models"
	"matchview/search"
)

// Search runs one server-side search page
func (c *BackendClient) Search(ctx context.Context, sess models.Session, criteria models.SearchCriteria, page, limit int) (*models.SearchResponse, error) {
	q := search.ToQuery(criteria)
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	var resp models.SearchResponse
	if err := c.get(ctx, sess, "/search", q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetProfile fetches one profile
func (c *BackendClient) GetProfile(ctx context.Context, sess models.Session, username string) (*models.UserSummary, error) {
	var profile models.UserSummary
	if err := c.get(ctx, sess, userPath("/profile/%s", username), nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// ListRelationship returns the usernames in one of the viewer's relationship sets
func (c *BackendClient) ListRelationship(ctx context.Context, sess models.Session, kind models.RelationKind) ([]string, error) {
	var payload map[string]json.RawMessage
	if err := c.get(ctx, sess, userPath("/"+string(kind)+"/%s", sess.Username), nil, &payload); err != nil {
		return nil, err
	}
	raw, ok := payload[string(kind)]
	if !ok {
		raw = payload["users"]
	}
	names, err := decodeUsernames(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s list: %w", kind, err)
	}
	return names, nil
}

// AddRelationship adds target to one of the viewer's sets
func (c *BackendClient) AddRelationship(ctx context.Context, sess models.Session, kind models.RelationKind, target string) error {
	q := url.Values{"username": {sess.Username}}
	return c.do(ctx, sess, http.MethodPost, userPath("/"+string(kind)+"/%s", target), q, nil, nil)
}

// RemoveRelationship removes target from one of the viewer's sets
func (c *BackendClient) RemoveRelationship(ctx context.Context, sess models.Session, kind models.RelationKind, target string) error {
	q := url.Values{"username": {sess.Username}}
	return c.do(ctx, sess, http.MethodDelete, userPath("/"+string(kind)+"/%s", target), q, nil, nil)
}

// relationship rows come back as bare usernames or as profile/link objects
var usernameFields = []string{"username", "excludedUsername", "favoriteUsername", "shortlistedUsername"}

func decodeUsernames(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(items))
	for _, item := range items {
		var name string
		if err := json.Unmarshal(item, &name); err == nil {
			names = append(names, name)
			continue
		}
		var obj map[string]any
		if err := json.Unmarshal(item, &obj); err != nil {
			return nil, err
		}
		for _, field := range usernameFields {
			if v, ok := obj[field].(string); ok && v != "" {
				names = append(names, v)
				break
			}
		}
	}
	return names, nil
}

// ListSavedSearches returns the viewer's saved searches
func (c *BackendClient) ListSavedSearches(ctx context.Context, sess models.Session) ([]models.SavedSearch, error) {
	var resp struct {
		SavedSearches []models.SavedSearch `json:"savedSearches"`
	}
	if err := c.get(ctx, sess, userPath("/%s/saved-searches", sess.Username), nil, &resp); err != nil {
		return nil, err
	}
	return resp.SavedSearches, nil
}

// CreateSavedSearch persists a named criteria snapshot
func (c *BackendClient) CreateSavedSearch(ctx context.Context, sess models.Session, name string, criteria models.SearchCriteria) (*models.SavedSearch, error) {
	body := map[string]any{"name": name, "criteria": criteria}
	var resp struct {
		SavedSearch models.SavedSearch `json:"savedSearch"`
	}
	if err := c.do(ctx, sess, http.MethodPost, userPath("/%s/saved-searches", sess.Username), nil, body, &resp); err != nil {
		return nil, err
	}
	return &resp.SavedSearch, nil
}

// RenameSavedSearch changes a saved search's name
func (c *BackendClient) RenameSavedSearch(ctx context.Context, sess models.Session, id, name string) (*models.SavedSearch, error) {
	body := map[string]any{"name": name}
	var resp struct {
		SavedSearch models.SavedSearch `json:"savedSearch"`
	}
	if err := c.do(ctx, sess, http.MethodPut, userPath("/%s/saved-searches/%s", sess.Username, id), nil, body, &resp); err != nil {
		return nil, err
	}
	return &resp.SavedSearch, nil
}

// DeleteSavedSearch removes a saved search
func (c *BackendClient) DeleteSavedSearch(ctx context.Context, sess models.Session, id string) error {
	return c.do(ctx, sess, http.MethodDelete, userPath("/%s/saved-searches/%s", sess.Username, id), nil, nil, nil)
}

// CreatePiiRequest asks a profile owner for access to gated fields
func (c *BackendClient) CreatePiiRequest(ctx context.Context, sess models.Session, input models.PiiRequestInput) error {
	body := map[string]any{
		"requesterUsername": sess.Username,
		"profileUsername":   input.ProfileUsername,
		"requestTypes":      input.RequestTypes,
		"message":           input.Message,
	}
	return c.do(ctx, sess, http.MethodPost, "/pii-request", nil, body, nil)
}

// PiiDirection selects outgoing (made by the viewer) or incoming (made to the viewer) requests
type PiiDirection string

const (
	PiiOutgoing PiiDirection = "outgoing"
	PiiIncoming PiiDirection = "incoming"
)

// ListPiiRequests returns the viewer's requests in one direction
func (c *BackendClient) ListPiiRequests(ctx context.Context, sess models.Session, direction PiiDirection) ([]models.PiiRequest, error) {
	var resp struct {
		Requests []models.PiiRequest `json:"requests"`
	}
	if err := c.get(ctx, sess, userPath("/pii-requests/%s/"+string(direction), sess.Username), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Requests, nil
}

// ReceivedAccess returns the grants currently active for the viewer
func (c *BackendClient) ReceivedAccess(ctx context.Context, sess models.Session) ([]models.ReceivedAccess, error) {
	var resp struct {
		ReceivedAccess []models.ReceivedAccess `json:"receivedAccess"`
	}
	if err := c.get(ctx, sess, userPath("/pii-access/%s/received", sess.Username), nil, &resp); err != nil {
		return nil, err
	}
	return resp.ReceivedAccess, nil
}

// ApprovePiiRequest approves an incoming request
func (c *BackendClient) ApprovePiiRequest(ctx context.Context, sess models.Session, id string, input models.ApproveInput) error {
	return c.do(ctx, sess, http.MethodPut, userPath("/pii-requests/%s/approve", id), nil, input, nil)
}

// DeletePiiRequest denies an incoming request or cancels an outgoing one
func (c *BackendClient) DeletePiiRequest(ctx context.Context, sess models.Session, id string) error {
	return c.do(ctx, sess, http.MethodDelete, userPath("/pii-requests/%s", id), nil, nil, nil)
}

// ImageVisibility returns per-image privacy records for owner as seen by the viewer
func (c *BackendClient) ImageVisibility(ctx context.Context, sess models.Session, owner string) ([]models.ImageVisibility, error) {
	var resp struct {
		Images []models.ImageVisibility `json:"images"`
	}
	q := url.Values{"viewerUsername": {sess.Username}}
	if err := c.get(ctx, sess, userPath("/profile/%s/image-visibility", owner), q, &resp); err != nil {
		return nil, err
	}
	return resp.Images, nil
}

// OnlineUsers returns the usernames currently online
func (c *BackendClient) OnlineUsers(ctx context.Context, sess models.Session) ([]string, error) {
	var resp struct {
		OnlineUsers []string `json:"onlineUsers"`
	}
	if err := c.get(ctx, sess, "/online-status/users", nil, &resp); err != nil {
		return nil, err
	}
	return resp.OnlineUsers, nil
}
