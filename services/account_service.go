package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"matchview/models"
)

var ErrInvalidNotificationPrefs = errors.New("invalid notification preferences")

var notificationChannels = []string{"email", "sms", "push", "in_app"}

// PaymentService exposes read-only subscription and payment-provider lookups
type PaymentService struct {
	backend *BackendClient
}

func NewPaymentService(backend *BackendClient) *PaymentService {
	return &PaymentService{backend: backend}
}

func (s *PaymentService) StripeConfig(ctx context.Context, sess models.Session) (*models.StripeConfig, error) {
	return s.backend.StripeConfig(ctx, sess)
}

func (s *PaymentService) Plans(ctx context.Context, sess models.Session) ([]models.Plan, error) {
	return s.backend.Plans(ctx, sess)
}

func (s *PaymentService) SubscriptionStatus(ctx context.Context, sess models.Session) (*models.SubscriptionStatus, error) {
	return s.backend.SubscriptionStatus(ctx, sess)
}

func (s *PaymentService) ClientToken(ctx context.Context, sess models.Session) (*models.ClientToken, error) {
	return s.backend.BraintreeClientToken(ctx, sess)
}

// NotificationService reads and writes per-trigger delivery channels
type NotificationService struct {
	backend *BackendClient
}

func NewNotificationService(backend *BackendClient) *NotificationService {
	return &NotificationService{backend: backend}
}

func (s *NotificationService) Get(ctx context.Context, sess models.Session) (*models.NotificationPreferences, error) {
	return s.backend.NotificationPreferences(ctx, sess)
}

// Update validates channel names and quiet hours before saving
func (s *NotificationService) Update(ctx context.Context, sess models.Session, prefs models.NotificationPreferences) (*models.NotificationPreferences, error) {
	for trigger, channels := range prefs.Channels {
		for _, ch := range channels {
			if !slices.Contains(notificationChannels, ch) {
				return nil, fmt.Errorf("%w: unknown channel %q for %s", ErrInvalidNotificationPrefs, ch, trigger)
			}
		}
	}
	if q := prefs.QuietHours; q != nil && q.Enabled {
		if _, err := time.Parse("15:04", q.Start); err != nil {
			return nil, fmt.Errorf("%w: quiet hours start %q", ErrInvalidNotificationPrefs, q.Start)
		}
		if _, err := time.Parse("15:04", q.End); err != nil {
			return nil, fmt.Errorf("%w: quiet hours end %q", ErrInvalidNotificationPrefs, q.End)
		}
		if q.Timezone != "" {
			if _, err := time.LoadLocation(q.Timezone); err != nil {
				return nil, fmt.Errorf("%w: timezone %q", ErrInvalidNotificationPrefs, q.Timezone)
			}
		}
	}
	prefs.Username = sess.Username
	return s.backend.UpdateNotificationPreferences(ctx, sess, prefs)
}
