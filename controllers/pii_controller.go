package controllers

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"matchview/helpers"
	"matchview/models"
	"matchview/services"
)

// PiiController handles access requests for contact details and photos
type PiiController struct {
	Pii    *services.PiiService
	Logger *zap.Logger
}

// NewPiiController creates a new PiiController instance
func NewPiiController(piiService *services.PiiService, logger *zap.Logger) *PiiController {
	return &PiiController{Pii: piiService, Logger: logger}
}

// Access returns the viewer's merged access map
func (pc *PiiController) Access(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(r)
	if !ok {
		unauthorized(w)
		return
	}
	access, err := pc.Pii.Access(r.Context(), sess)
	if err != nil {
		writeError(w, r, pc.Logger, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]any{"access": access})
}

// Request asks a profile owner for access
func (pc *PiiController) Request(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(r)
	if !ok {
		unauthorized(w)
		return
	}
	var input models.PiiRequestInput
	if err := helpers.DecodeJSON(r, &input); err != nil {
		badRequest(w, "Invalid request body")
		return
	}
	if err := pc.Pii.Request(r.Context(), sess, input); err != nil {
		writeError(w, r, pc.Logger, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusCreated, map[string]string{"message": "Request sent"})
}

// Incoming lists requests others made for the viewer's data: ?status=pending
func (pc *PiiController) Incoming(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(r)
	if !ok {
		unauthorized(w)
		return
	}
	requests, err := pc.Pii.Incoming(r.Context(), sess, r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, r, pc.Logger, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]any{"requests": requests})
}

// Outgoing lists the viewer's own requests
func (pc *PiiController) Outgoing(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(r)
	if !ok {
		unauthorized(w)
		return
	}
	requests, err := pc.Pii.Outgoing(r.Context(), sess, r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, r, pc.Logger, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]any{"requests": requests})
}

// Received lists access other users have granted the viewer
func (pc *PiiController) Received(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(r)
	if !ok {
		unauthorized(w)
		return
	}
	received, err := pc.Pii.Received(r.Context(), sess)
	if err != nil {
		writeError(w, r, pc.Logger, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]any{"receivedAccess": received})
}

// Approve grants an incoming request. The body is optional.
func (pc *PiiController) Approve(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(r)
	if !ok {
		unauthorized(w)
		return
	}
	var input models.ApproveInput
	if r.ContentLength != 0 {
		if err := helpers.DecodeJSON(r, &input); err != nil {
			badRequest(w, "Invalid request body")
			return
		}
	}
	if err := pc.Pii.Approve(r.Context(), sess, mux.Vars(r)["id"], input); err != nil {
		writeError(w, r, pc.Logger, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]string{"status": models.StatusApproved})
}

func (pc *PiiController) Deny(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(r)
	if !ok {
		unauthorized(w)
		return
	}
	if err := pc.Pii.Deny(r.Context(), sess, mux.Vars(r)["id"]); err != nil {
		writeError(w, r, pc.Logger, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]string{"status": models.StatusDenied})
}

func (pc *PiiController) Cancel(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(r)
	if !ok {
		unauthorized(w)
		return
	}
	if err := pc.Pii.Cancel(r.Context(), sess, mux.Vars(r)["id"]); err != nil {
		writeError(w, r, pc.Logger, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]string{"status": models.StatusCancelled})
}
