package controllers

import (
	"net/http"

	"go.uber.org/zap"

	"matchview/helpers"
	"matchview/models"
	"matchview/services"
)

// SearchController exposes the viewer's search session
type SearchController struct {
	Searches *services.SearchService
	Logger   *zap.Logger
}

// NewSearchController creates a new SearchController instance
func NewSearchController(searches *services.SearchService, logger *zap.Logger) *SearchController {
	return &SearchController{Searches: searches, Logger: logger}
}

// Run starts a new search and returns its first page
func (sc *SearchController) Run(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(r)
	if !ok {
		unauthorized(w)
		return
	}
	var criteria models.SearchCriteria
	if err := helpers.DecodeJSON(r, &criteria); err != nil {
		badRequest(w, "Invalid request body")
		return
	}
	view, err := sc.Searches.Run(r.Context(), sess, criteria)
	if err != nil {
		writeError(w, r, sc.Logger, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, view)
}

// View returns a page of the current search: GET /search?page=2
func (sc *SearchController) View(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(r)
	if !ok {
		unauthorized(w)
		return
	}
	page, err := intQuery(r, "page", 1)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	view, err := sc.Searches.View(r.Context(), sess, page)
	if err != nil {
		writeError(w, r, sc.Logger, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, view)
}

// LoadMore fetches the next backend page into the buffer
func (sc *SearchController) LoadMore(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(r)
	if !ok {
		unauthorized(w)
		return
	}
	view, err := sc.Searches.LoadMore(r.Context(), sess)
	if err != nil {
		writeError(w, r, sc.Logger, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, view)
}

// SetPageSize changes the page size and returns page 1
func (sc *SearchController) SetPageSize(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(r)
	if !ok {
		unauthorized(w)
		return
	}
	var body struct {
		PageSize int `json:"pageSize"`
	}
	if err := helpers.DecodeJSON(r, &body); err != nil {
		badRequest(w, "Invalid request body")
		return
	}
	view, err := sc.Searches.SetPageSize(r.Context(), sess, body.PageSize)
	if err != nil {
		writeError(w, r, sc.Logger, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, view)
}

// Clear resets the search to default criteria
func (sc *SearchController) Clear(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(r)
	if !ok {
		unauthorized(w)
		return
	}
	criteria := sc.Searches.Clear(r.Context(), sess)
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]any{"criteria": criteria})
}

// Criteria returns the criteria of the current search
func (sc *SearchController) Criteria(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(r)
	if !ok {
		unauthorized(w)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]any{"criteria": sc.Searches.Criteria(r.Context(), sess)})
}

// Defaults returns starting criteria derived from the viewer's profile
func (sc *SearchController) Defaults(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(r)
	if !ok {
		unauthorized(w)
		return
	}
	criteria, err := sc.Searches.Defaults(r.Context(), sess)
	if err != nil {
		writeError(w, r, sc.Logger, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]any{"criteria": criteria})
}
