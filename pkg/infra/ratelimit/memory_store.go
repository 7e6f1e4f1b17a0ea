package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/devopsinterview/storefront/pkg/domain/ratelimit"
	"github.com/sirupsen/logrus"
)

const DefaultCleanupInterval = 5 * time.Minute

type entry struct {
	count   int64
	resetAt time.Time
}

// MemoryStore keeps counters in process memory. Windows restart lazily on
// the first touch after expiry; Run sweeps stale keys periodically.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
	logger  *logrus.Logger
}

type MemoryOption func(*MemoryStore)

func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		s.now = now
	}
}

func NewMemoryStore(logger *logrus.Logger, opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]*entry),
		now:     time.Now,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) Increment(_ context.Context, key string, window time.Duration) (ratelimit.Counter, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.active(key, now, window)
	e.count++
	return ratelimit.Counter{Count: e.count, ResetAt: e.resetAt}, nil
}

// IncrementWithin leaves a full window untouched, so the stored count never
// exceeds limit.
func (s *MemoryStore) IncrementWithin(_ context.Context, key string, window time.Duration, limit int64) (ratelimit.Counter, bool, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.active(key, now, window)
	if e.count >= limit {
		return ratelimit.Counter{Count: e.count, ResetAt: e.resetAt}, false, nil
	}
	e.count++
	return ratelimit.Counter{Count: e.count, ResetAt: e.resetAt}, true, nil
}

// active returns the live entry for key, starting a new window when needed.
// Callers hold s.mu.
func (s *MemoryStore) active(key string, now time.Time, window time.Duration) *entry {
	e, ok := s.entries[key]
	if !ok || !now.Before(e.resetAt) {
		e = &entry{resetAt: now.Add(window)}
		s.entries[key] = e
	}
	return e
}

func (s *MemoryStore) Get(_ context.Context, key string) (ratelimit.Counter, bool, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || !now.Before(e.resetAt) {
		return ratelimit.Counter{}, false, nil
	}
	return ratelimit.Counter{Count: e.count, ResetAt: e.resetAt}, true, nil
}

// Cleanup removes every expired entry and returns how many were removed.
func (s *MemoryStore) Cleanup() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, e := range s.entries {
		if !now.Before(e.resetAt) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Run sweeps expired entries every interval until ctx is cancelled.
func (s *MemoryStore) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.Cleanup(); removed > 0 {
				s.logger.WithField("removed", removed).Debug("swept expired rate limit entries")
			}
		}
	}
}
