package ratelimit

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/devopsinterview/storefront/pkg/common"
	"github.com/devopsinterview/storefront/pkg/domain/ratelimit"
	domainSecurity "github.com/devopsinterview/storefront/pkg/domain/security"
	"github.com/sirupsen/logrus"
)

var apiSegment = regexp.MustCompile(`^/api/([^/]+)`)

// Request is the part of an inbound request the limiter needs.
type Request struct {
	Path         string
	ForwardedFor string
	RealIP       string
}

type Decision string

const (
	DecisionAllowed  Decision = "allowed"
	DecisionRejected Decision = "rejected"
	DecisionFailOpen Decision = "fail_open"
)

// Observer is notified of every decision, e.g. to export metrics.
type Observer func(endpoint string, decision Decision)

type Limiter interface {
	Configure(endpoint string, policy ratelimit.Policy)
	Policy(endpoint string) ratelimit.Policy
	Check(ctx context.Context, req Request, endpoint string) ratelimit.Result
	Status(ctx context.Context, req Request, endpoint string) ratelimit.Result
}

type Opts struct {
	TimeProvider func() time.Time
	Observer     Observer
}

type limiter struct {
	mu       sync.RWMutex
	policies map[string]ratelimit.Policy
	store    ratelimit.Store
	events   domainSecurity.Recorder
	logger   *logrus.Logger
	now      func() time.Time
	observe  Observer
}

func NewLimiter(
	logger *logrus.Logger,
	store ratelimit.Store,
	events domainSecurity.Recorder,
	opts *Opts,
) Limiter {
	l := &limiter{
		policies: ratelimit.DefaultPolicies(),
		store:    store,
		events:   events,
		logger:   logger,
		now:      time.Now,
		observe:  func(string, Decision) {},
	}
	if opts != nil {
		if opts.TimeProvider != nil {
			l.now = opts.TimeProvider
		}
		if opts.Observer != nil {
			l.observe = opts.Observer
		}
	}
	return l
}

func (l *limiter) Configure(endpoint string, policy ratelimit.Policy) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.policies[endpoint] = policy
}

func (l *limiter) Policy(endpoint string) ratelimit.Policy {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if p, ok := l.policies[endpoint]; ok {
		return p
	}
	return l.policies[ratelimit.DefaultEndpoint]
}

func (l *limiter) Check(ctx context.Context, req Request, endpoint string) ratelimit.Result {
	endpoint = ResolveEndpoint(req.Path, endpoint)
	clientID := ClientID(req)
	policy := l.Policy(endpoint)
	key := ratelimit.Key(clientID, endpoint)

	counter, allowed, err := l.increment(ctx, key, policy)
	if err != nil {
		l.logger.WithError(err).WithFields(logrus.Fields{
			"endpoint": endpoint,
			"client":   clientID,
		}).Error("rate limit store unavailable, allowing request")
		l.events.Log(domainSecurity.Event{
			Type:     domainSecurity.EventError,
			IP:       clientID,
			Path:     req.Path,
			Severity: domainSecurity.SeverityHigh,
			Details: map[string]any{
				"message":  err.Error(),
				"endpoint": endpoint,
				"reason":   "rate limit check failed",
			},
		})
		l.observe(endpoint, DecisionFailOpen)
		return l.fullQuota(policy)
	}

	if !allowed {
		message := policy.Message
		if message == "" {
			message = ratelimit.DefaultMessage
		}
		l.events.Log(domainSecurity.Event{
			Type:     domainSecurity.EventRateLimit,
			IP:       clientID,
			Path:     req.Path,
			Severity: domainSecurity.SeverityMedium,
			Details: map[string]any{
				"reason":   "Rate limit exceeded",
				"endpoint": endpoint,
				"count":    counter.Count,
				"limit":    policy.MaxRequests,
			},
		})
		l.observe(endpoint, DecisionRejected)
		return ratelimit.Result{
			Success:   false,
			Limit:     policy.MaxRequests,
			Remaining: 0,
			ResetAt:   counter.ResetAt,
			Error:     message,
		}
	}

	l.observe(endpoint, DecisionAllowed)
	return ratelimit.Result{
		Success:   true,
		Limit:     policy.MaxRequests,
		Remaining: remaining(policy.MaxRequests, counter.Count),
		ResetAt:   counter.ResetAt,
	}
}

// increment counts one hit. Bounded stores refuse to count past the limit;
// plain stores always count and the limit is applied here.
func (l *limiter) increment(ctx context.Context, key string, policy ratelimit.Policy) (ratelimit.Counter, bool, error) {
	limit := int64(policy.MaxRequests)
	if bounded, ok := l.store.(ratelimit.BoundedStore); ok {
		return bounded.IncrementWithin(ctx, key, policy.Window, limit)
	}
	counter, err := l.store.Increment(ctx, key, policy.Window)
	if err != nil {
		return counter, false, err
	}
	return counter, counter.Count <= limit, nil
}

func (l *limiter) Status(ctx context.Context, req Request, endpoint string) ratelimit.Result {
	endpoint = ResolveEndpoint(req.Path, endpoint)
	policy := l.Policy(endpoint)
	key := ratelimit.Key(ClientID(req), endpoint)

	counter, found, err := l.store.Get(ctx, key)
	if err != nil {
		l.logger.WithError(err).WithField("endpoint", endpoint).Warn("failed to read rate limit status")
		return l.fullQuota(policy)
	}
	if !found {
		return l.fullQuota(policy)
	}
	return ratelimit.Result{
		Success:   counter.Count <= int64(policy.MaxRequests),
		Limit:     policy.MaxRequests,
		Remaining: remaining(policy.MaxRequests, counter.Count),
		ResetAt:   counter.ResetAt,
	}
}

func (l *limiter) fullQuota(policy ratelimit.Policy) ratelimit.Result {
	return ratelimit.Result{
		Success:   true,
		Limit:     policy.MaxRequests,
		Remaining: policy.MaxRequests,
		ResetAt:   l.now().Add(policy.Window),
	}
}

func remaining(limit int, count int64) int {
	left := int64(limit) - count
	if left < 0 {
		return 0
	}
	return int(left)
}

// ClientID identifies the caller from forwarding headers. The headers are
// trusted as sent, so a client can choose its own bucket by spoofing them.
func ClientID(req Request) string {
	if req.ForwardedFor != "" {
		first := strings.TrimSpace(strings.Split(req.ForwardedFor, ",")[0])
		if first != "" {
			return first
		}
	}
	if ip := strings.TrimSpace(req.RealIP); ip != "" {
		return ip
	}
	return common.UnknownClient
}

// ResolveEndpoint returns explicit when set, otherwise the first path segment
// after /api/, otherwise the default endpoint.
func ResolveEndpoint(path, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if m := apiSegment.FindStringSubmatch(path); m != nil {
		return m[1]
	}
	return ratelimit.DefaultEndpoint
}
