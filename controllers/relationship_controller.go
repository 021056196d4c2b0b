package controllers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"matchview/helpers"
	"matchview/models"
	"matchview/services"
)

// RelationshipController manages favorites, shortlist and exclusions
type RelationshipController struct {
	Relationships *services.RelationshipService
	Logger        *zap.Logger
}

// NewRelationshipController creates a new RelationshipController instance
func NewRelationshipController(relationships *services.RelationshipService, logger *zap.Logger) *RelationshipController {
	return &RelationshipController{Relationships: relationships, Logger: logger}
}

// List returns all three sets. ?refresh=true reloads them from the backend.
func (rc *RelationshipController) List(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(r)
	if !ok {
		unauthorized(w)
		return
	}
	refresh, err := boolQuery(r, "refresh")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	var sets models.RelationshipSet
	if refresh {
		sets, err = rc.Relationships.Reload(r.Context(), sess)
	} else {
		sets, err = rc.Relationships.Sets(r.Context(), sess)
	}
	if err != nil {
		writeError(w, r, rc.Logger, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, sets)
}

// ListKind returns one set: GET /relationships/{kind}
func (rc *RelationshipController) ListKind(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(r)
	if !ok {
		unauthorized(w)
		return
	}
	kind := models.RelationKind(mux.Vars(r)["kind"])
	if !kind.Valid() {
		writeError(w, r, rc.Logger, services.ErrUnknownRelation)
		return
	}
	sets, err := rc.Relationships.Sets(r.Context(), sess)
	if err != nil {
		writeError(w, r, rc.Logger, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]any{string(kind): sets.Set(kind)})
}

// Add puts {username} into {kind}. Excluding also clears favorites and shortlist.
func (rc *RelationshipController) Add(w http.ResponseWriter, r *http.Request) {
	rc.mutate(w, r, rc.Relationships.Add)
}

// Remove takes {username} out of {kind}
func (rc *RelationshipController) Remove(w http.ResponseWriter, r *http.Request) {
	rc.mutate(w, r, rc.Relationships.Remove)
}

type relationshipMutation func(ctx context.Context, sess models.Session, kind models.RelationKind, target string) (models.RelationshipSet, error)

func (rc *RelationshipController) mutate(w http.ResponseWriter, r *http.Request, op relationshipMutation) {
	sess, ok := session(r)
	if !ok {
		unauthorized(w)
		return
	}
	vars := mux.Vars(r)
	sets, err := op(r.Context(), sess, models.RelationKind(vars["kind"]), vars["username"])
	if err != nil {
		writeError(w, r, rc.Logger, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, sets)
}
