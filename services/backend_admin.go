package services

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"matchview/models"
)

// GetSystemSettings returns the admin settings document
func (c *BackendClient) GetSystemSettings(ctx context.Context, sess models.Session) (models.SystemSettings, error) {
	settings := models.SystemSettings{}
	if err := c.get(ctx, sess, "/system-settings", nil, &settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// UpdateSystemSettings replaces the admin settings document
func (c *BackendClient) UpdateSystemSettings(ctx context.Context, sess models.Session, settings models.SystemSettings) (models.SystemSettings, error) {
	updated := models.SystemSettings{}
	if err := c.do(ctx, sess, http.MethodPut, "/system-settings", nil, settings, &updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// ListSchedulerJobs returns every configured job
func (c *BackendClient) ListSchedulerJobs(ctx context.Context, sess models.Session) ([]models.SchedulerJob, error) {
	var resp struct {
		Jobs []models.SchedulerJob `json:"jobs"`
	}
	if err := c.get(ctx, sess, "/scheduler-jobs", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Jobs, nil
}

// SaveSchedulerJob creates the job, or updates it when update is set
func (c *BackendClient) SaveSchedulerJob(ctx context.Context, sess models.Session, job models.SchedulerJob, update bool) (*models.SchedulerJob, error) {
	method, path := http.MethodPost, "/scheduler-jobs"
	if update {
		method, path = http.MethodPut, userPath("/scheduler-jobs/%s", job.Name)
	}
	var saved models.SchedulerJob
	if err := c.do(ctx, sess, method, path, nil, job, &saved); err != nil {
		return nil, err
	}
	if saved.Name == "" {
		saved = job
	}
	return &saved, nil
}

// DeleteSchedulerJob removes a job
func (c *BackendClient) DeleteSchedulerJob(ctx context.Context, sess models.Session, name string) error {
	return c.do(ctx, sess, http.MethodDelete, userPath("/scheduler-jobs/%s", name), nil, nil, nil)
}

// RunSchedulerJob triggers an immediate run
func (c *BackendClient) RunSchedulerJob(ctx context.Context, sess models.Session, name string) error {
	return c.do(ctx, sess, http.MethodPost, userPath("/scheduler-jobs/%s/run", name), nil, nil, nil)
}

// SchedulerJobLogs returns recent executions of a job
func (c *BackendClient) SchedulerJobLogs(ctx context.Context, sess models.Session, name string, limit int) ([]models.JobLog, error) {
	var q url.Values
	if limit > 0 {
		q = url.Values{"limit": {strconv.Itoa(limit)}}
	}
	var resp struct {
		Logs []models.JobLog `json:"logs"`
	}
	if err := c.get(ctx, sess, userPath("/scheduler-jobs/%s/logs", name), q, &resp); err != nil {
		return nil, err
	}
	return resp.Logs, nil
}

// ActivityLogs queries the audit log
func (c *BackendClient) ActivityLogs(ctx context.Context, sess models.Session, filter models.ActivityLogFilter) (*models.ActivityLogPage, error) {
	q := url.Values{}
	setIf := func(key, value string) {
		if value != "" {
			q.Set(key, value)
		}
	}
	setIf("username", filter.Username)
	setIf("action_type", filter.ActionType)
	setIf("target_username", filter.TargetUsername)
	setIf("start_date", filter.StartDate)
	setIf("end_date", filter.EndDate)
	if filter.Page > 0 {
		q.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}
	var page models.ActivityLogPage
	if err := c.get(ctx, sess, "/api/activity-logs/", q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// StripeConfig returns the publishable Stripe configuration
func (c *BackendClient) StripeConfig(ctx context.Context, sess models.Session) (*models.StripeConfig, error) {
	var cfg models.StripeConfig
	if err := c.get(ctx, sess, "/api/stripe/config", nil, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Plans returns the purchasable plans
func (c *BackendClient) Plans(ctx context.Context, sess models.Session) ([]models.Plan, error) {
	var resp struct {
		Plans []models.Plan `json:"plans"`
	}
	if err := c.get(ctx, sess, "/api/stripe/plans", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Plans, nil
}

// SubscriptionStatus returns the viewer's membership state
func (c *BackendClient) SubscriptionStatus(ctx context.Context, sess models.Session) (*models.SubscriptionStatus, error) {
	var status models.SubscriptionStatus
	if err := c.get(ctx, sess, "/api/stripe/subscription-status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// BraintreeClientToken returns a client token for the drop-in UI
func (c *BackendClient) BraintreeClientToken(ctx context.Context, sess models.Session) (*models.ClientToken, error) {
	var token models.ClientToken
	if err := c.get(ctx, sess, "/api/braintree/client-token", nil, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// NotificationPreferences returns the viewer's delivery settings
func (c *BackendClient) NotificationPreferences(ctx context.Context, sess models.Session) (*models.NotificationPreferences, error) {
	var prefs models.NotificationPreferences
	if err := c.get(ctx, sess, "/api/notifications/preferences", nil, &prefs); err != nil {
		return nil, err
	}
	return &prefs, nil
}

// UpdateNotificationPreferences replaces the viewer's delivery settings
func (c *BackendClient) UpdateNotificationPreferences(ctx context.Context, sess models.Session, prefs models.NotificationPreferences) (*models.NotificationPreferences, error) {
	var saved models.NotificationPreferences
	if err := c.do(ctx, sess, http.MethodPut, "/api/notifications/preferences", nil, prefs, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}
