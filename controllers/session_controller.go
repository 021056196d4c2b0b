package controllers

import (
	"net/http"

	"go.uber.org/zap"
)

// Forgetter drops everything cached for one viewer
type Forgetter interface {
	Forget(username string)
}

// SessionController ends a viewer's session on this gateway
type SessionController struct {
	Caches []Forgetter
	Logger *zap.Logger
}

// NewSessionController creates a new SessionController instance
func NewSessionController(caches []Forgetter, logger *zap.Logger) *SessionController {
	return &SessionController{Caches: caches, Logger: logger}
}

// Logout drops the viewer's cached search, relationship and access state.
// The token itself stays valid until it expires.
func (sc *SessionController) Logout(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(r)
	if !ok {
		unauthorized(w)
		return
	}
	for _, c := range sc.Caches {
		c.Forget(sess.Username)
	}
	sc.Logger.Debug("session state dropped", zap.String("username", sess.Username))
	w.WriteHeader(http.StatusNoContent)
}
