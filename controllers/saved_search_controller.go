package controllers

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"matchview/helpers"
	"matchview/models"
	"matchview/services"
)

// SavedSearchController handles named criteria snapshots
type SavedSearchController struct {
	SavedSearches *services.SavedSearchService
	Logger        *zap.Logger
}

// NewSavedSearchController creates a new SavedSearchController instance
func NewSavedSearchController(savedSearches *services.SavedSearchService, logger *zap.Logger) *SavedSearchController {
	return &SavedSearchController{SavedSearches: savedSearches, Logger: logger}
}

type savedSearchBody struct {
	Name     string                 `json:"name"`
	Criteria *models.SearchCriteria `json:"criteria,omitempty"`
}

func (sc *SavedSearchController) List(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(r)
	if !ok {
		unauthorized(w)
		return
	}
	searches, err := sc.SavedSearches.List(r.Context(), sess)
	if err != nil {
		writeError(w, r, sc.Logger, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]any{"savedSearches": searches})
}

func (sc *SavedSearchController) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(r)
	if !ok {
		unauthorized(w)
		return
	}
	saved, err := sc.SavedSearches.Get(r.Context(), sess, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, sc.Logger, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, saved)
}

// Create saves the given criteria, or the current search when criteria is omitted
func (sc *SavedSearchController) Create(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(r)
	if !ok {
		unauthorized(w)
		return
	}
	var body savedSearchBody
	if err := helpers.DecodeJSON(r, &body); err != nil {
		badRequest(w, "Invalid request body")
		return
	}
	var (
		saved *models.SavedSearch
		err   error
	)
	if body.Criteria == nil {
		saved, err = sc.SavedSearches.SaveCurrent(r.Context(), sess, body.Name)
	} else {
		saved, err = sc.SavedSearches.Create(r.Context(), sess, body.Name, *body.Criteria)
	}
	if err != nil {
		writeError(w, r, sc.Logger, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusCreated, saved)
}

func (sc *SavedSearchController) Rename(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(r)
	if !ok {
		unauthorized(w)
		return
	}
	var body savedSearchBody
	if err := helpers.DecodeJSON(r, &body); err != nil {
		badRequest(w, "Invalid request body")
		return
	}
	saved, err := sc.SavedSearches.Rename(r.Context(), sess, mux.Vars(r)["id"], body.Name)
	if err != nil {
		writeError(w, r, sc.Logger, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, saved)
}

func (sc *SavedSearchController) Delete(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(r)
	if !ok {
		unauthorized(w)
		return
	}
	if err := sc.SavedSearches.Delete(r.Context(), sess, mux.Vars(r)["id"]); err != nil {
		writeError(w, r, sc.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Apply runs the saved criteria as the viewer's current search
func (sc *SavedSearchController) Apply(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(r)
	if !ok {
		unauthorized(w)
		return
	}
	view, err := sc.SavedSearches.Apply(r.Context(), sess, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, sc.Logger, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, view)
}
