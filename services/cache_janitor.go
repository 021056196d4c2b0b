package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Evicter drops per-viewer state older than cutoff and reports how many
// viewers it dropped
type Evicter interface {
	Evict(cutoff time.Time) int
}

// CacheJanitor periodically evicts per-viewer state older than ttl so caches
// stay bounded by the number of active viewers and reload from the backend.
type CacheJanitor struct {
	ttl      time.Duration
	interval time.Duration
	caches   map[string]Evicter
	logger   *zap.Logger
	now      func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewCacheJanitor(ttl, interval time.Duration, caches map[string]Evicter, logger *zap.Logger) *CacheJanitor {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheJanitor{
		ttl:      ttl,
		interval: interval,
		caches:   caches,
		logger:   logger,
		now:      time.Now,
	}
}

// Sweep runs one eviction pass over every cache
func (j *CacheJanitor) Sweep() int {
	cutoff := j.now().Add(-j.ttl)
	total := 0
	for name, c := range j.caches {
		if n := c.Evict(cutoff); n > 0 {
			j.logger.Debug("evicted cached state", zap.String("cache", name), zap.Int("viewers", n))
			total += n
		}
	}
	return total
}

// Start sweeps on every tick until Stop or ctx is done
func (j *CacheJanitor) Start(ctx context.Context) {
	j.mu.Lock()
	if j.done != nil {
		j.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.done = make(chan struct{})
	done := j.done
	j.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				j.Sweep()
			}
		}
	}()
}

// Stop ends sweeping and waits for the loop to exit
func (j *CacheJanitor) Stop() {
	j.mu.Lock()
	cancel, done := j.cancel, j.done
	j.cancel, j.done = nil, nil
	j.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}
