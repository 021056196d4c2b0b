package controllers

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"matchview/helpers"
	"matchview/models"
	"matchview/services"
)

// PreferenceController reads and writes the viewer's display preferences
type PreferenceController struct {
	Preferences *services.PreferenceService
	Logger      *zap.Logger
}

// NewPreferenceController creates a new PreferenceController instance
func NewPreferenceController(preferences *services.PreferenceService, logger *zap.Logger) *PreferenceController {
	return &PreferenceController{Preferences: preferences, Logger: logger}
}

func (pc *PreferenceController) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(r)
	if !ok {
		unauthorized(w)
		return
	}
	prefs, err := pc.Preferences.Get(r.Context(), sess.Username)
	if err != nil {
		writeError(w, r, pc.Logger, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, prefs)
}

func (pc *PreferenceController) Put(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(r)
	if !ok {
		unauthorized(w)
		return
	}
	var prefs models.Preferences
	if err := helpers.DecodeJSON(r, &prefs); err != nil {
		badRequest(w, "Invalid request body")
		return
	}
	saved, err := pc.Preferences.Put(r.Context(), sess.Username, prefs)
	if err != nil {
		writeError(w, r, pc.Logger, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, saved)
}

// SetCollapsed handles PUT /preferences/sections/{section}
func (pc *PreferenceController) SetCollapsed(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(r)
	if !ok {
		unauthorized(w)
		return
	}
	var body struct {
		Collapsed bool `json:"collapsed"`
	}
	if err := helpers.DecodeJSON(r, &body); err != nil {
		badRequest(w, "Invalid request body")
		return
	}
	prefs, err := pc.Preferences.SetCollapsed(r.Context(), sess.Username, mux.Vars(r)["section"], body.Collapsed)
	if err != nil {
		writeError(w, r, pc.Logger, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, prefs)
}

func (pc *PreferenceController) Delete(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(r)
	if !ok {
		unauthorized(w)
		return
	}
	if err := pc.Preferences.Delete(r.Context(), sess.Username); err != nil {
		writeError(w, r, pc.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
