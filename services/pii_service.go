package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"matchview/models"
	"matchview/pii"
)

var (
	ErrInvalidPiiRequest = errors.New("invalid pii request")
	ErrPiiRequestUnknown = errors.New("pii request not found")
)

var piiRequestTypes = []string{models.PiiTypeContactInfo, models.PiiTypeImages}

// PiiService tracks which gated fields each viewer may see and drives the
// request/approve/deny workflow. Merged access maps are cached per viewer until
// a push event or a local action invalidates them.
type PiiService struct {
	backend  *BackendClient
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time

	mu     sync.Mutex
	cache  map[string]pii.AccessMap
	loaded map[string]time.Time
}

func NewPiiService(backend *BackendClient, notifier Notifier, logger *zap.Logger) *PiiService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PiiService{
		backend:  backend,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
		cache:    make(map[string]pii.AccessMap),
		loaded:   make(map[string]time.Time),
	}
}

// Access returns the viewer's merged access map
func (s *PiiService) Access(ctx context.Context, sess models.Session) (pii.AccessMap, error) {
	s.mu.Lock()
	if m, ok := s.cache[sess.Username]; ok {
		out := m.Clone()
		s.mu.Unlock()
		return out, nil
	}
	s.mu.Unlock()

	var (
		outgoing []models.PiiRequest
		received []models.ReceivedAccess
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		outgoing, err = s.backend.ListPiiRequests(gctx, sess, PiiOutgoing)
		return err
	})
	g.Go(func() error {
		var err error
		received, err = s.backend.ReceivedAccess(gctx, sess)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load pii access: %w", err)
	}

	m := pii.Merge(outgoing, received)
	s.mu.Lock()
	s.cache[sess.Username] = m
	s.loaded[sess.Username] = s.now()
	s.mu.Unlock()
	return m.Clone(), nil
}

// Invalidate drops username's cached access map
func (s *PiiService) Invalidate(username string) {
	s.mu.Lock()
	delete(s.cache, username)
	delete(s.loaded, username)
	s.mu.Unlock()
	s.logger.Debug("pii access invalidated", zap.String("username", username))
}

// Forget drops username's cached access map
func (s *PiiService) Forget(username string) {
	s.Invalidate(username)
}

// Evict drops access maps loaded before cutoff
func (s *PiiService) Evict(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for username, at := range s.loaded {
		if at.Before(cutoff) {
			delete(s.cache, username)
			delete(s.loaded, username)
			n++
		}
	}
	return n
}

// Request asks input.ProfileUsername for access. A 409 means an identical
// request is already pending and is treated as success.
func (s *PiiService) Request(ctx context.Context, sess models.Session, input models.PiiRequestInput) error {
	input.ProfileUsername = strings.TrimSpace(input.ProfileUsername)
	if input.ProfileUsername == "" || input.ProfileUsername == sess.Username {
		return fmt.Errorf("%w: bad profile %q", ErrInvalidPiiRequest, input.ProfileUsername)
	}
	if len(input.RequestTypes) == 0 {
		return fmt.Errorf("%w: no request types", ErrInvalidPiiRequest)
	}
	for _, t := range input.RequestTypes {
		if !slices.Contains(piiRequestTypes, t) {
			return fmt.Errorf("%w: unknown type %q", ErrInvalidPiiRequest, t)
		}
	}

	err := s.backend.CreatePiiRequest(ctx, sess, input)
	if err != nil && !IsConflict(err) {
		return fmt.Errorf("request pii from %s: %w", input.ProfileUsername, err)
	}

	s.mu.Lock()
	if m, ok := s.cache[sess.Username]; ok {
		m.MarkPending(input.ProfileUsername, input.RequestTypes...)
	}
	s.mu.Unlock()

	if err == nil {
		s.notifier.Notify(input.ProfileUsername, models.EventPiiChanged, map[string]any{
			"from":         sess.Username,
			"status":       models.StatusPending,
			"requestTypes": input.RequestTypes,
		})
	}
	return nil
}

// Incoming lists requests made to the viewer, optionally narrowed by status
func (s *PiiService) Incoming(ctx context.Context, sess models.Session, status string) ([]models.PiiRequest, error) {
	return s.list(ctx, sess, PiiIncoming, status)
}

// Outgoing lists requests the viewer has made, optionally narrowed by status
func (s *PiiService) Outgoing(ctx context.Context, sess models.Session, status string) ([]models.PiiRequest, error) {
	return s.list(ctx, sess, PiiOutgoing, status)
}

// Received lists the grants currently active for the viewer
func (s *PiiService) Received(ctx context.Context, sess models.Session) ([]models.ReceivedAccess, error) {
	return s.backend.ReceivedAccess(ctx, sess)
}

func (s *PiiService) list(ctx context.Context, sess models.Session, direction PiiDirection, status string) ([]models.PiiRequest, error) {
	reqs, err := s.backend.ListPiiRequests(ctx, sess, direction)
	if err != nil {
		return nil, err
	}
	if status == "" {
		return reqs, nil
	}
	out := reqs[:0]
	for _, r := range reqs {
		if strings.EqualFold(r.Status, status) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Approve grants an incoming request and tells the requester
func (s *PiiService) Approve(ctx context.Context, sess models.Session, id string, input models.ApproveInput) error {
	if input.DurationDays < 0 {
		return fmt.Errorf("%w: negative duration", ErrInvalidPiiRequest)
	}
	req, err := s.find(ctx, sess, PiiIncoming, id)
	if err != nil {
		return err
	}
	if err := s.backend.ApprovePiiRequest(ctx, sess, id, input); err != nil {
		return fmt.Errorf("approve pii request %s: %w", id, err)
	}
	s.respond(req, models.StatusApproved)
	return nil
}

// Deny rejects an incoming request and tells the requester
func (s *PiiService) Deny(ctx context.Context, sess models.Session, id string) error {
	req, err := s.find(ctx, sess, PiiIncoming, id)
	if err != nil {
		return err
	}
	if err := s.backend.DeletePiiRequest(ctx, sess, id); err != nil && !IsNotFound(err) {
		return fmt.Errorf("deny pii request %s: %w", id, err)
	}
	s.respond(req, models.StatusDenied)
	return nil
}

// Cancel withdraws one of the viewer's outgoing requests
func (s *PiiService) Cancel(ctx context.Context, sess models.Session, id string) error {
	req, err := s.find(ctx, sess, PiiOutgoing, id)
	if err != nil {
		return err
	}
	if err := s.backend.DeletePiiRequest(ctx, sess, id); err != nil && !IsNotFound(err) {
		return fmt.Errorf("cancel pii request %s: %w", id, err)
	}
	s.Invalidate(sess.Username)
	s.notifier.Notify(req.ProfileUsername, models.EventPiiChanged, map[string]any{
		"id":     id,
		"from":   sess.Username,
		"status": models.StatusCancelled,
	})
	return nil
}

func (s *PiiService) find(ctx context.Context, sess models.Session, direction PiiDirection, id string) (models.PiiRequest, error) {
	reqs, err := s.backend.ListPiiRequests(ctx, sess, direction)
	if err != nil {
		return models.PiiRequest{}, err
	}
	for _, r := range reqs {
		if r.ID == id {
			return r, nil
		}
	}
	return models.PiiRequest{}, fmt.Errorf("%w: %s", ErrPiiRequestUnknown, id)
}

func (s *PiiService) respond(req models.PiiRequest, status string) {
	s.Invalidate(req.RequesterUsername)
	s.notifier.Notify(req.RequesterUsername, models.EventPiiChanged, map[string]any{
		"id":          req.ID,
		"from":        req.ProfileUsername,
		"requestType": req.RequestType,
		"status":      status,
	})
}
