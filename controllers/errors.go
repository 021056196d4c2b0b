package controllers

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"matchview/helpers"
	"matchview/models"
	"matchview/requestctx"
	"matchview/search"
	"matchview/services"
)

// statusFor maps service errors onto HTTP statuses
func statusFor(err error) int {
	var apiErr *services.APIError
	switch {
	case errors.Is(err, search.ErrInvalidCriteria),
		errors.Is(err, services.ErrInvalidTarget),
		errors.Is(err, services.ErrUnknownRelation),
		errors.Is(err, services.ErrInvalidPiiRequest),
		errors.Is(err, services.ErrInvalidPreferences),
		errors.Is(err, services.ErrInvalidUpload),
		errors.Is(err, services.ErrInvalidSavedSearch),
		errors.Is(err, services.ErrInvalidJob),
		errors.Is(err, services.ErrInvalidSetting),
		errors.Is(err, services.ErrInvalidNotificationPrefs):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrPiiRequestUnknown),
		errors.Is(err, services.ErrSavedSearchUnknown):
		return http.StatusNotFound
	case errors.Is(err, services.ErrSuperseded):
		return http.StatusConflict
	case errors.Is(err, context.Canceled):
		return 499
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &apiErr):
		if apiErr.Status >= 500 {
			return http.StatusBadGateway
		}
		return apiErr.Status
	}
	return http.StatusInternalServerError
}

// writeError renders err with its mapped status. Backend 4xx details pass
// through; anything unexpected is logged and hidden.
func writeError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	status := statusFor(err)
	message := err.Error()
	var apiErr *services.APIError
	if errors.As(err, &apiErr) && apiErr.Status < 500 {
		message = apiErr.Detail
	}
	if status >= 500 {
		logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", requestctx.RequestIDFromContext(r.Context())),
			zap.Error(err))
		message = http.StatusText(status)
	}
	helpers.WriteErrorResponse(w, status, message)
}

// session returns the viewer stored by the session middleware
func session(r *http.Request) (models.Session, bool) {
	sess, ok := requestctx.SessionFromContext(r.Context())
	return sess, ok && sess.Valid()
}

func unauthorized(w http.ResponseWriter) {
	helpers.WriteErrorResponse(w, http.StatusUnauthorized, "Not authenticated")
}

func badRequest(w http.ResponseWriter, message string) {
	helpers.WriteErrorResponse(w, http.StatusBadRequest, message)
}
