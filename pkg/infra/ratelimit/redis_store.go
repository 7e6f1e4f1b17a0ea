package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/devopsinterview/storefront/pkg/domain/ratelimit"
	"github.com/go-redis/redis/v8"
)

// RedisStore keeps counters in redis so that every instance shares one view.
// Expiry is native TTL; INCR provides per-key atomicity.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

type RedisOption func(*RedisStore)

func WithRedisClock(now func() time.Time) RedisOption {
	return func(s *RedisStore) {
		s.now = now
	}
}

func NewRedisStore(client *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) Increment(ctx context.Context, key string, window time.Duration) (ratelimit.Counter, error) {
	var (
		incr *redis.IntCmd
		pttl *redis.DurationCmd
	)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pttl = pipe.PTTL(ctx, key)
		return nil
	})
	if err != nil {
		return ratelimit.Counter{}, fmt.Errorf("increment %s: %w", key, err)
	}

	ttl := pttl.Val()
	if ttl < 0 {
		// first hit of a window, or a key left without expiry
		if err := s.client.PExpire(ctx, key, window).Err(); err != nil {
			return ratelimit.Counter{}, fmt.Errorf("expire %s: %w", key, err)
		}
		ttl = window
	}
	return ratelimit.Counter{Count: incr.Val(), ResetAt: s.now().Add(ttl)}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (ratelimit.Counter, bool, error) {
	var (
		get  *redis.StringCmd
		pttl *redis.DurationCmd
	)
	_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		get = pipe.Get(ctx, key)
		pttl = pipe.PTTL(ctx, key)
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return ratelimit.Counter{}, false, fmt.Errorf("get %s: %w", key, err)
	}

	count, err := get.Int64()
	if errors.Is(err, redis.Nil) {
		return ratelimit.Counter{}, false, nil
	}
	if err != nil {
		return ratelimit.Counter{}, false, fmt.Errorf("parse %s: %w", key, err)
	}
	ttl := pttl.Val()
	if ttl < 0 {
		ttl = 0
	}
	return ratelimit.Counter{Count: count, ResetAt: s.now().Add(ttl)}, true, nil
}
