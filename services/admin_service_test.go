package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"matchview/models"
)

var adminSession = models.Session{Username: "root", Token: "admin-tok", Role: "admin"}

func TestAdminService_RequiresAdmin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("backend must not be called")
	}))
	defer srv.Close()
	svc := NewAdminService(NewBackendClient(BackendConfig{BaseURL: srv.URL}, zap.NewNop()))
	ctx := context.Background()

	_, err := svc.Settings(ctx, testSession)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, svc.RunJob(ctx, testSession, "digest"), ErrForbidden)
	_, err = svc.ActivityLogs(ctx, testSession, models.ActivityLogFilter{})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAdminService_Passthrough(t *testing.T) {
	var (
		mu    sync.Mutex
		seen  []string
		query map[string][]string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, r.Method+" "+r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/scheduler-jobs":
			_ = json.NewEncoder(w).Encode(map[string]any{"jobs": []models.SchedulerJob{{Name: "digest", Enabled: true}}})
		case "/api/activity-logs/":
			query = r.URL.Query()
			_ = json.NewEncoder(w).Encode(models.ActivityLogPage{Logs: []models.ActivityLog{{Username: "a"}}, Total: 1, Page: 2, Pages: 1, Limit: 10})
		case "/scheduler-jobs/digest/logs":
			_ = json.NewEncoder(w).Encode(map[string]any{"logs": []models.JobLog{{ID: "l1", JobName: "digest", Status: "success"}}})
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer srv.Close()
	svc := NewAdminService(NewBackendClient(BackendConfig{BaseURL: srv.URL}, zap.NewNop()))
	ctx := context.Background()

	jobs, err := svc.Jobs(ctx, adminSession)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "digest", jobs[0].Name)

	require.NoError(t, svc.RunJob(ctx, adminSession, "digest"))

	logs, err := svc.JobLogs(ctx, adminSession, "digest", 5)
	require.NoError(t, err)
	assert.Len(t, logs, 1)

	page, err := svc.ActivityLogs(ctx, adminSession, models.ActivityLogFilter{ActionType: "login", Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"login"}, query["action_type"])
	assert.NotContains(t, query, "username")

	assert.Equal(t, []string{
		"GET /scheduler-jobs",
		"POST /scheduler-jobs/digest/run",
		"GET /scheduler-jobs/digest/logs",
		"GET /api/activity-logs/",
	}, seen)
}

func TestValidateJob(t *testing.T) {
	tests := []struct {
		name string
		job  models.SchedulerJob
		ok   bool
	}{
		{"cron", models.SchedulerJob{Name: "a", Schedule: models.JobSchedule{Type: "cron", Expression: "0 9 * * 1"}}, true},
		{"interval", models.SchedulerJob{Name: "a", Schedule: models.JobSchedule{Type: "interval", IntervalSeconds: 60}}, true},
		{"no name", models.SchedulerJob{Schedule: models.JobSchedule{Type: "interval", IntervalSeconds: 60}}, false},
		{"short cron", models.SchedulerJob{Name: "a", Schedule: models.JobSchedule{Type: "cron", Expression: "* *"}}, false},
		{"zero interval", models.SchedulerJob{Name: "a", Schedule: models.JobSchedule{Type: "interval"}}, false},
		{"unknown type", models.SchedulerJob{Name: "a", Schedule: models.JobSchedule{Type: "once"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateJob(tt.job)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidJob)
			}
		})
	}
}

func TestNotificationService_Validation(t *testing.T) {
	var saved models.NotificationPreferences
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&saved)
		_ = json.NewEncoder(w).Encode(saved)
	}))
	defer srv.Close()
	svc := NewNotificationService(NewBackendClient(BackendConfig{BaseURL: srv.URL}, zap.NewNop()))
	ctx := context.Background()

	_, err := svc.Update(ctx, testSession, models.NotificationPreferences{Channels: map[string][]string{"new_match": {"pigeon"}}})
	assert.ErrorIs(t, err, ErrInvalidNotificationPrefs)

	_, err = svc.Update(ctx, testSession, models.NotificationPreferences{QuietHours: &models.QuietHours{Enabled: true, Start: "25:00", End: "07:00"}})
	assert.ErrorIs(t, err, ErrInvalidNotificationPrefs)

	_, err = svc.Update(ctx, testSession, models.NotificationPreferences{QuietHours: &models.QuietHours{Enabled: true, Start: "22:00", End: "07:00", Timezone: "Mars/Olympus"}})
	assert.ErrorIs(t, err, ErrInvalidNotificationPrefs)

	out, err := svc.Update(ctx, testSession, models.NotificationPreferences{
		Channels:   map[string][]string{"new_match": {"email", "push"}},
		QuietHours: &models.QuietHours{Enabled: true, Start: "22:00", End: "07:00", Timezone: "UTC"},
	})
	require.NoError(t, err)
	assert.Equal(t, "viewer", out.Username)
	assert.Equal(t, []string{"email", "push"}, out.Channels["new_match"])
}
