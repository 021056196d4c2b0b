package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"matchview/models"
)

// PresenceService keeps a polled snapshot of who is online
type PresenceService struct {
	backend  *BackendClient
	sess     models.Session
	interval time.Duration
	logger   *zap.Logger

	mu     sync.RWMutex
	online models.UsernameSet

	cancel context.CancelFunc
	done   chan struct{}
}

// NewPresenceService polls with sess, a service identity allowed to read the online list
func NewPresenceService(backend *BackendClient, sess models.Session, interval time.Duration, logger *zap.Logger) *PresenceService {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PresenceService{
		backend:  backend,
		sess:     sess,
		interval: interval,
		logger:   logger,
		online:   models.UsernameSet{},
	}
}

// Start refreshes once and then polls until Stop or ctx is done
func (p *PresenceService) Start(ctx context.Context) {
	p.mu.Lock()
	if p.done != nil {
		p.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	done := p.done
	p.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		p.refreshLogged(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.refreshLogged(ctx)
			}
		}
	}()
}

// Stop ends polling and waits for the poller to exit
func (p *PresenceService) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Refresh replaces the snapshot with the backend's current list
func (p *PresenceService) Refresh(ctx context.Context) error {
	names, err := p.backend.OnlineUsers(ctx, p.sess)
	if err != nil {
		return err
	}
	set := models.NewUsernameSet(names...)
	p.mu.Lock()
	p.online = set
	p.mu.Unlock()
	return nil
}

func (p *PresenceService) refreshLogged(ctx context.Context) {
	if err := p.Refresh(ctx); err != nil && ctx.Err() == nil {
		p.logger.Warn("presence refresh failed", zap.Error(err))
	}
}

// Online returns a copy of the current snapshot
func (p *PresenceService) Online() models.UsernameSet {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.online.Clone()
}

// IsOnline reports whether username is in the current snapshot. A nil
// service reports everyone offline.
func (p *PresenceService) IsOnline(username string) bool {
	if p == nil {
		return false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.online.Has(username)
}
