package controllers

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"matchview/helpers"
	"matchview/models"
	"matchview/services"
)

// AdminController exposes system settings, scheduler jobs and activity logs
type AdminController struct {
	Admin  *services.AdminService
	Logger *zap.Logger
}

// NewAdminController creates a new AdminController instance
func NewAdminController(admin *services.AdminService, logger *zap.Logger) *AdminController {
	return &AdminController{Admin: admin, Logger: logger}
}

func (ac *AdminController) Settings(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(r)
	if !ok {
		unauthorized(w)
		return
	}
	settings, err := ac.Admin.Settings(r.Context(), sess)
	if err != nil {
		writeError(w, r, ac.Logger, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, settings)
}

func (ac *AdminController) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(r)
	if !ok {
		unauthorized(w)
		return
	}
	var settings models.SystemSettings
	if err := helpers.DecodeJSON(r, &settings); err != nil {
		badRequest(w, "Invalid request body")
		return
	}
	saved, err := ac.Admin.UpdateSettings(r.Context(), sess, settings)
	if err != nil {
		writeError(w, r, ac.Logger, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, saved)
}

func (ac *AdminController) Jobs(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(r)
	if !ok {
		unauthorized(w)
		return
	}
	jobs, err := ac.Admin.Jobs(r.Context(), sess)
	if err != nil {
		writeError(w, r, ac.Logger, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]any{"jobs": jobs})
}

// CreateJob handles POST /jobs
func (ac *AdminController) CreateJob(w http.ResponseWriter, r *http.Request) {
	ac.saveJob(w, r, false)
}

// UpdateJob handles PUT /jobs/{name}; the path name wins over the body
func (ac *AdminController) UpdateJob(w http.ResponseWriter, r *http.Request) {
	ac.saveJob(w, r, true)
}

func (ac *AdminController) saveJob(w http.ResponseWriter, r *http.Request, update bool) {
	sess, ok := session(r)
	if !ok {
		unauthorized(w)
		return
	}
	var job models.SchedulerJob
	if err := helpers.DecodeJSON(r, &job); err != nil {
		badRequest(w, "Invalid request body")
		return
	}
	if update {
		job.Name = mux.Vars(r)["name"]
	}
	saved, err := ac.Admin.SaveJob(r.Context(), sess, job, update)
	if err != nil {
		writeError(w, r, ac.Logger, err)
		return
	}
	status := http.StatusCreated
	if update {
		status = http.StatusOK
	}
	helpers.WriteJSONResponse(w, status, saved)
}

func (ac *AdminController) DeleteJob(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(r)
	if !ok {
		unauthorized(w)
		return
	}
	if err := ac.Admin.DeleteJob(r.Context(), sess, mux.Vars(r)["name"]); err != nil {
		writeError(w, r, ac.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ac *AdminController) RunJob(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(r)
	if !ok {
		unauthorized(w)
		return
	}
	if err := ac.Admin.RunJob(r.Context(), sess, mux.Vars(r)["name"]); err != nil {
		writeError(w, r, ac.Logger, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusAccepted, map[string]string{"message": "Job started"})
}

func (ac *AdminController) JobLogs(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(r)
	if !ok {
		unauthorized(w)
		return
	}
	limit, err := intQuery(r, "limit", 50)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	logs, err := ac.Admin.JobLogs(r.Context(), sess, mux.Vars(r)["name"], limit)
	if err != nil {
		writeError(w, r, ac.Logger, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]any{"logs": logs})
}

// ActivityLogs handles GET /activity-logs?username=&action_type=&page=&limit=
func (ac *AdminController) ActivityLogs(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(r)
	if !ok {
		unauthorized(w)
		return
	}
	q := r.URL.Query()
	page, err := intQuery(r, "page", 1)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	limit, err := intQuery(r, "limit", 50)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	logs, err := ac.Admin.ActivityLogs(r.Context(), sess, models.ActivityLogFilter{
		Username:       q.Get("username"),
		ActionType:     q.Get("action_type"),
		TargetUsername: q.Get("target_username"),
		StartDate:      q.Get("start_date"),
		EndDate:        q.Get("end_date"),
		Page:           page,
		Limit:          limit,
	})
	if err != nil {
		writeError(w, r, ac.Logger, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, logs)
}
