package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"matchview/models"
)

var (
	ErrForbidden      = errors.New("admin role required")
	ErrInvalidJob     = errors.New("invalid scheduler job")
	ErrInvalidSetting = errors.New("invalid system settings")
)

// AdminService fronts the settings, scheduler and audit endpoints. Access
// decisions belong to the backend; the role check here only spares it calls
// that would be refused anyway.
type AdminService struct {
	backend *BackendClient
}

func NewAdminService(backend *BackendClient) *AdminService {
	return &AdminService{backend: backend}
}

func requireAdmin(sess models.Session) error {
	if !strings.EqualFold(sess.Role, models.RoleAdmin) {
		return ErrForbidden
	}
	return nil
}

func (s *AdminService) Settings(ctx context.Context, sess models.Session) (models.SystemSettings, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	return s.backend.GetSystemSettings(ctx, sess)
}

func (s *AdminService) UpdateSettings(ctx context.Context, sess models.Session, settings models.SystemSettings) (models.SystemSettings, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	if len(settings) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidSetting)
	}
	return s.backend.UpdateSystemSettings(ctx, sess, settings)
}

func (s *AdminService) Jobs(ctx context.Context, sess models.Session) ([]models.SchedulerJob, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	return s.backend.ListSchedulerJobs(ctx, sess)
}

// SaveJob creates or updates a job after checking its schedule is well formed
func (s *AdminService) SaveJob(ctx context.Context, sess models.Session, job models.SchedulerJob, update bool) (*models.SchedulerJob, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	if err := validateJob(job); err != nil {
		return nil, err
	}
	return s.backend.SaveSchedulerJob(ctx, sess, job, update)
}

func (s *AdminService) DeleteJob(ctx context.Context, sess models.Session, name string) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	return s.backend.DeleteSchedulerJob(ctx, sess, name)
}

func (s *AdminService) RunJob(ctx context.Context, sess models.Session, name string) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	return s.backend.RunSchedulerJob(ctx, sess, name)
}

func (s *AdminService) JobLogs(ctx context.Context, sess models.Session, name string, limit int) ([]models.JobLog, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	return s.backend.SchedulerJobLogs(ctx, sess, name, limit)
}

func (s *AdminService) ActivityLogs(ctx context.Context, sess models.Session, filter models.ActivityLogFilter) (*models.ActivityLogPage, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	return s.backend.ActivityLogs(ctx, sess, filter)
}

func validateJob(job models.SchedulerJob) error {
	if strings.TrimSpace(job.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidJob)
	}
	switch job.Schedule.Type {
	case "cron":
		if len(strings.Fields(job.Schedule.Expression)) != 5 {
			return fmt.Errorf("%w: cron expression needs five fields", ErrInvalidJob)
		}
	case "interval":
		if job.Schedule.IntervalSeconds <= 0 {
			return fmt.Errorf("%w: interval must be positive", ErrInvalidJob)
		}
	default:
		return fmt.Errorf("%w: schedule type %q", ErrInvalidJob, job.Schedule.Type)
	}
	return nil
}
