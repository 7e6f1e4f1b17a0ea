package ratelimit

import (
	"context"
	"fmt"
	"time"
)

const (
	DefaultEndpoint = "default"
	DefaultMessage  = "Too many requests. Please try again later."
	KeyPrefix       = "ratelimit"
)

// Policy bounds how many requests one client may make to one endpoint
// inside a fixed window.
type Policy struct {
	Window      time.Duration
	MaxRequests int
	Message     string
}

// Counter is the state of one client/endpoint window.
type Counter struct {
	Count   int64
	ResetAt time.Time
}

// Result is the outcome of a rate limit check.
type Result struct {
	Success   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
	Error     string
}

// RetryAfter is the number of whole seconds until ResetAt, rounded up.
func (r Result) RetryAfter(now time.Time) int64 {
	d := r.ResetAt.Sub(now)
	if d <= 0 {
		return 0
	}
	return int64((d + time.Second - 1) / time.Second)
}

func Key(clientID, endpoint string) string {
	return fmt.Sprintf("%s:%s:%s", KeyPrefix, clientID, endpoint)
}

// Store keeps window counters. Implementations must make Increment atomic per key.
//
//go:generate mockery --name=Store --dir=. --output=./mocks --filename=store_mock.go --case=underscore --with-expecter
type Store interface {
	// Increment adds one to the counter for key, starting a new window of the
	// given length when none is active, and returns the updated counter.
	Increment(ctx context.Context, key string, window time.Duration) (Counter, error)
	// Get returns the active counter for key without changing it.
	Get(ctx context.Context, key string) (Counter, bool, error)
}

// BoundedStore is implemented by stores that stop counting once a window is
// full. IncrementWithin adds one only while the counter is below limit and
// reports whether it did.
type BoundedStore interface {
	IncrementWithin(ctx context.Context, key string, window time.Duration, limit int64) (Counter, bool, error)
}

// DefaultPolicies is the built-in policy table, keyed by endpoint name.
func DefaultPolicies() map[string]Policy {
	return map[string]Policy{
		"checkout": {
			Window:      15 * time.Minute,
			MaxRequests: 5,
			Message:     "Too many checkout attempts. Please wait before trying again.",
		},
		"stripe-webhook": {
			Window:      time.Minute,
			MaxRequests: 100,
			Message:     "Webhook rate limit exceeded.",
		},
		"download": {
			Window:      time.Minute,
			MaxRequests: 10,
			Message:     "Too many download attempts. Please wait before trying again.",
		},
		"newsletter": {
			Window:      time.Hour,
			MaxRequests: 3,
			Message:     "Too many newsletter signup attempts. Please try again later.",
		},
		"contact": {
			Window:      time.Hour,
			MaxRequests: 5,
			Message:     "Too many contact form submissions. Please try again later.",
		},
		DefaultEndpoint: {
			Window:      15 * time.Minute,
			MaxRequests: 100,
			Message:     "Rate limit exceeded. Please try again later.",
		},
	}
}
