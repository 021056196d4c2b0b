package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"matchview/models"
)

var (
	ErrUnknownRelation = errors.New("unknown relationship kind")
	ErrInvalidTarget   = errors.New("invalid target username")
)

// Notifier pushes an event to every socket connection of one user
type Notifier interface {
	Notify(username, event string, payload any)
}

type nopNotifier struct{}

func (nopNotifier) Notify(string, string, any) {}

// RelationshipService owns each viewer's favorites, shortlist and exclusions
type RelationshipService struct {
	backend  *BackendClient
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time

	mu     sync.Mutex
	sets   map[string]*models.RelationshipSet
	loaded map[string]time.Time
}

func NewRelationshipService(backend *BackendClient, notifier Notifier, logger *zap.Logger) *RelationshipService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RelationshipService{
		backend:  backend,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
		sets:     make(map[string]*models.RelationshipSet),
		loaded:   make(map[string]time.Time),
	}
}

// Sets returns a copy of the viewer's sets, loading them on first use
func (s *RelationshipService) Sets(ctx context.Context, sess models.Session) (models.RelationshipSet, error) {
	s.mu.Lock()
	if set, ok := s.sets[sess.Username]; ok {
		out := set.Clone()
		s.mu.Unlock()
		return out, nil
	}
	s.mu.Unlock()
	return s.Reload(ctx, sess)
}

// Reload fetches all three sets from the backend and replaces the cached copy
func (s *RelationshipService) Reload(ctx context.Context, sess models.Session) (models.RelationshipSet, error) {
	lists := make([][]string, len(models.RelationKinds))
	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range models.RelationKinds {
		g.Go(func() error {
			names, err := s.backend.ListRelationship(gctx, sess, kind)
			if err != nil {
				return fmt.Errorf("load %s: %w", kind, err)
			}
			lists[i] = names
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.RelationshipSet{}, err
	}

	set := models.NewRelationshipSet()
	for i, kind := range models.RelationKinds {
		for _, name := range lists[i] {
			set.Set(kind).Add(name)
		}
	}

	s.mu.Lock()
	s.sets[sess.Username] = set
	s.loaded[sess.Username] = s.now()
	out := set.Clone()
	s.mu.Unlock()
	return out, nil
}

// Exclusions returns the viewer's exclusion set
func (s *RelationshipService) Exclusions(ctx context.Context, sess models.Session) (models.UsernameSet, error) {
	set, err := s.Sets(ctx, sess)
	if err != nil {
		return nil, err
	}
	return set.Exclusions, nil
}

// Forget drops the cached sets for username
func (s *RelationshipService) Forget(username string) {
	s.mu.Lock()
	delete(s.sets, username)
	delete(s.loaded, username)
	s.mu.Unlock()
}

// Evict drops every viewer's sets loaded before cutoff so the next read goes
// back to the backend.
func (s *RelationshipService) Evict(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for username, at := range s.loaded {
		if at.Before(cutoff) {
			delete(s.sets, username)
			delete(s.loaded, username)
			n++
		}
	}
	return n
}

// Add puts target into kind. The local set changes before the backend call and
// is rolled back if the call fails. A 409 means the backend already has the
// entry, which is the state we wanted. Excluding a user also removes them from
// favorites and shortlist.
func (s *RelationshipService) Add(ctx context.Context, sess models.Session, kind models.RelationKind, target string) (models.RelationshipSet, error) {
	if err := s.validate(sess, kind, target); err != nil {
		return models.RelationshipSet{}, err
	}
	if _, err := s.Sets(ctx, sess); err != nil {
		return models.RelationshipSet{}, err
	}

	s.mu.Lock()
	set := s.cached(sess.Username)
	hadTarget := set.Set(kind).Has(target)
	var cascaded []models.RelationKind
	set.Set(kind).Add(target)
	if kind == models.RelationExclusions {
		for _, other := range []models.RelationKind{models.RelationFavorites, models.RelationShortlist} {
			if set.Set(other).Has(target) {
				set.Set(other).Remove(target)
				cascaded = append(cascaded, other)
			}
		}
	}
	s.mu.Unlock()

	err := s.backend.AddRelationship(ctx, sess, kind, target)
	switch {
	case err == nil:
	case IsConflict(err):
		s.logger.Debug("relationship already present",
			zap.String("username", sess.Username),
			zap.String("kind", string(kind)),
			zap.String("target", target))
	default:
		s.mu.Lock()
		if !hadTarget {
			set.Set(kind).Remove(target)
		}
		for _, other := range cascaded {
			set.Set(other).Add(target)
		}
		s.mu.Unlock()
		return models.RelationshipSet{}, fmt.Errorf("add %s %s: %w", kind, target, err)
	}

	for _, other := range cascaded {
		if err := s.backend.RemoveRelationship(ctx, sess, other, target); err != nil && !IsNotFound(err) {
			s.logger.Warn("failed to remove excluded user",
				zap.String("username", sess.Username),
				zap.String("kind", string(other)),
				zap.String("target", target),
				zap.Error(err))
		}
	}

	return s.changed(sess.Username), nil
}

// Remove takes target out of kind. A 404 means it was already gone.
func (s *RelationshipService) Remove(ctx context.Context, sess models.Session, kind models.RelationKind, target string) (models.RelationshipSet, error) {
	if err := s.validate(sess, kind, target); err != nil {
		return models.RelationshipSet{}, err
	}
	if _, err := s.Sets(ctx, sess); err != nil {
		return models.RelationshipSet{}, err
	}

	s.mu.Lock()
	set := s.cached(sess.Username)
	hadTarget := set.Set(kind).Has(target)
	set.Set(kind).Remove(target)
	s.mu.Unlock()

	err := s.backend.RemoveRelationship(ctx, sess, kind, target)
	if err != nil && !IsNotFound(err) {
		if hadTarget {
			s.mu.Lock()
			set.Set(kind).Add(target)
			s.mu.Unlock()
		}
		return models.RelationshipSet{}, fmt.Errorf("remove %s %s: %w", kind, target, err)
	}

	return s.changed(sess.Username), nil
}

// cached must be called with mu held
func (s *RelationshipService) cached(username string) *models.RelationshipSet {
	set, ok := s.sets[username]
	if !ok {
		set = models.NewRelationshipSet()
		s.sets[username] = set
		s.loaded[username] = s.now()
	}
	return set
}

func (s *RelationshipService) validate(sess models.Session, kind models.RelationKind, target string) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownRelation, kind)
	}
	if strings.TrimSpace(target) == "" || target == sess.Username {
		return fmt.Errorf("%w: %q", ErrInvalidTarget, target)
	}
	return nil
}

func (s *RelationshipService) changed(username string) models.RelationshipSet {
	s.mu.Lock()
	out := *models.NewRelationshipSet()
	if set, ok := s.sets[username]; ok {
		out = set.Clone()
	}
	s.mu.Unlock()
	s.notifier.Notify(username, models.EventRelationshipsChanged, out)
	return out
}
