package models

import "time"

// SystemSettings is the admin-editable settings document. Its shape is owned by the backend.
type SystemSettings map[string]any

// SchedulerJob describes a backend scheduled job
type SchedulerJob struct {
	Name         string         `json:"name"`
	TemplateType string         `json:"templateType,omitempty"`
	Description  string         `json:"description,omitempty"`
	Schedule     JobSchedule    `json:"schedule"`
	Enabled      bool           `json:"enabled"`
	Parameters   map[string]any `json:"parameters,omitempty"`
	LastRunAt    *time.Time     `json:"lastRunAt,omitempty"`
	NextRunAt    *time.Time     `json:"nextRunAt,omitempty"`
}

// JobSchedule is either a cron expression or a fixed interval
type JobSchedule struct {
	Type            string `json:"type"` // cron or interval
	Expression      string `json:"expression,omitempty"`
	IntervalSeconds int    `json:"intervalSeconds,omitempty"`
}

// JobLog is one execution record of a scheduler job
type JobLog struct {
	ID         string     `json:"id"`
	JobName    string     `json:"jobName"`
	Status     string     `json:"status"`
	StartedAt  *time.Time `json:"startedAt,omitempty"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
	Output     string     `json:"output,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// ActivityLogFilter narrows the admin activity log query
type ActivityLogFilter struct {
	Username       string
	ActionType     string
	TargetUsername string
	StartDate      string
	EndDate        string
	Page           int
	Limit          int
}

// ActivityLog is one audited user action
type ActivityLog struct {
	ID             string         `json:"id,omitempty"`
	Username       string         `json:"username"`
	ActionType     string         `json:"action_type"`
	TargetUsername string         `json:"target_username,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	Timestamp      string         `json:"timestamp"`
}

// ActivityLogPage is a page of activity logs
type ActivityLogPage struct {
	Logs  []ActivityLog `json:"logs"`
	Total int           `json:"total"`
	Page  int           `json:"page"`
	Pages int           `json:"pages"`
	Limit int           `json:"limit"`
}
