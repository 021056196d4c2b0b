package controllers

import (
	"net/http"

	"go.uber.org/zap"

	"matchview/helpers"
	"matchview/models"
	"matchview/services"
)

// DashboardController serves the viewer's activity summary
type DashboardController struct {
	Dashboard *services.DashboardService
	Logger    *zap.Logger
}

// NewDashboardController creates a new DashboardController instance
func NewDashboardController(dashboard *services.DashboardService, logger *zap.Logger) *DashboardController {
	return &DashboardController{Dashboard: dashboard, Logger: logger}
}

func (dc *DashboardController) Summary(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(r)
	if !ok {
		unauthorized(w)
		return
	}
	summary, err := dc.Dashboard.Summary(r.Context(), sess)
	if err != nil {
		writeError(w, r, dc.Logger, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, summary)
}

// NotificationController reads and updates notification channel preferences
type NotificationController struct {
	Notifications *services.NotificationService
	Logger        *zap.Logger
}

// NewNotificationController creates a new NotificationController instance
func NewNotificationController(notifications *services.NotificationService, logger *zap.Logger) *NotificationController {
	return &NotificationController{Notifications: notifications, Logger: logger}
}

func (nc *NotificationController) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(r)
	if !ok {
		unauthorized(w)
		return
	}
	prefs, err := nc.Notifications.Get(r.Context(), sess)
	if err != nil {
		writeError(w, r, nc.Logger, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, prefs)
}

func (nc *NotificationController) Update(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(r)
	if !ok {
		unauthorized(w)
		return
	}
	var prefs models.NotificationPreferences
	if err := helpers.DecodeJSON(r, &prefs); err != nil {
		badRequest(w, "Invalid request body")
		return
	}
	saved, err := nc.Notifications.Update(r.Context(), sess, prefs)
	if err != nil {
		writeError(w, r, nc.Logger, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, saved)
}

// PaymentController passes payment configuration through from the backend
type PaymentController struct {
	Payments *services.PaymentService
	Logger   *zap.Logger
}

// NewPaymentController creates a new PaymentController instance
func NewPaymentController(payments *services.PaymentService, logger *zap.Logger) *PaymentController {
	return &PaymentController{Payments: payments, Logger: logger}
}

func (pc *PaymentController) StripeConfig(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(r)
	if !ok {
		unauthorized(w)
		return
	}
	cfg, err := pc.Payments.StripeConfig(r.Context(), sess)
	if err != nil {
		writeError(w, r, pc.Logger, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, cfg)
}

func (pc *PaymentController) Plans(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(r)
	if !ok {
		unauthorized(w)
		return
	}
	plans, err := pc.Payments.Plans(r.Context(), sess)
	if err != nil {
		writeError(w, r, pc.Logger, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]any{"plans": plans})
}

func (pc *PaymentController) SubscriptionStatus(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(r)
	if !ok {
		unauthorized(w)
		return
	}
	status, err := pc.Payments.SubscriptionStatus(r.Context(), sess)
	if err != nil {
		writeError(w, r, pc.Logger, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, status)
}

func (pc *PaymentController) ClientToken(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(r)
	if !ok {
		unauthorized(w)
		return
	}
	token, err := pc.Payments.ClientToken(r.Context(), sess)
	if err != nil {
		writeError(w, r, pc.Logger, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, token)
}
