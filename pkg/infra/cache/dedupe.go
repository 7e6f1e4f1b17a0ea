package cache

import (
	"context"
	"fmt"
	"time"
)

// Deduplicator reports whether a key is seen for the first time within its TTL.
type Deduplicator interface {
	FirstSeen(ctx context.Context, key string) (bool, error)
	// Forget releases a key so a later delivery is processed again.
	Forget(ctx context.Context, key string) error
}

type redisDeduplicator struct {
	client Client
	prefix string
	ttl    time.Duration
}

// NewRedisDeduplicator shares seen keys across instances through SET NX.
func NewRedisDeduplicator(client Client, prefix string, ttl time.Duration) Deduplicator {
	return &redisDeduplicator{client: client, prefix: prefix, ttl: ttl}
}

func (d *redisDeduplicator) FirstSeen(ctx context.Context, key string) (bool, error) {
	stored, err := d.client.SetNX(ctx, fmt.Sprintf("%s:%s", d.prefix, key), "1", d.ttl)
	if err != nil {
		return false, fmt.Errorf("dedupe %s: %w", key, err)
	}
	return stored, nil
}

func (d *redisDeduplicator) Forget(ctx context.Context, key string) error {
	return d.client.Delete(ctx, fmt.Sprintf("%s:%s", d.prefix, key))
}

const DefaultDedupeSweepInterval = 5 * time.Minute

// MemoryDeduplicator keeps seen keys in a process-local TTLMap. Run must be
// started for keys that are never looked up again to be released.
type MemoryDeduplicator struct {
	seen *TTLMap[struct{}]
}

func NewMemoryDeduplicator(ttl time.Duration) *MemoryDeduplicator {
	return &MemoryDeduplicator{seen: NewTTLMap[struct{}](ttl)}
}

// WithClock replaces the time source, for tests.
func (d *MemoryDeduplicator) WithClock(now func() time.Time) *MemoryDeduplicator {
	d.seen.WithClock(now)
	return d
}

func (d *MemoryDeduplicator) FirstSeen(_ context.Context, key string) (bool, error) {
	return d.seen.SetIfAbsent(key, struct{}{}), nil
}

func (d *MemoryDeduplicator) Forget(_ context.Context, key string) error {
	d.seen.Delete(key)
	return nil
}

// Sweep drops expired keys and returns how many were removed.
func (d *MemoryDeduplicator) Sweep() int {
	return d.seen.Sweep()
}

func (d *MemoryDeduplicator) Len() int {
	return d.seen.Len()
}

// Run sweeps expired keys every interval until ctx is cancelled.
func (d *MemoryDeduplicator) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultDedupeSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.Sweep()
		}
	}
}
