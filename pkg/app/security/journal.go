package security

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	domainSecurity "github.com/devopsinterview/storefront/pkg/domain/security"
	"github.com/sirupsen/logrus"
)

const (
	DefaultCapacity      = 1000
	DefaultRecentLimit   = 50
	DefaultFilteredLimit = 20
	DefaultMetricsHours  = 24
	topIPsLimit          = 10
	journalMessagePrefix = "[SECURITY]"
)

// Journal is a bounded, process-local log of security events.
type Journal interface {
	domainSecurity.Recorder
	Recent(limit int) []domainSecurity.Event
	ByType(eventType domainSecurity.EventType, limit int) []domainSecurity.Event
	BySeverity(severity domainSecurity.Severity, limit int) []domainSecurity.Event
	Metrics(hours int) domainSecurity.Metrics

	LogRateLimit(ip, path string)
	LogAuthFailure(ip, userAgent string, details map[string]any)
	LogSuspiciousActivity(ip, path, reason string, severity domainSecurity.Severity)
	LogAPIAccess(method, path, ip, userAgent string, statusCode int)
	LogSecurityError(err error, context map[string]any)
}

type Option func(*journal)

func WithCapacity(n int) Option {
	return func(j *journal) {
		if n > 0 {
			j.capacity = n
		}
	}
}

func WithForwarders(forwarders ...domainSecurity.Forwarder) Option {
	return func(j *journal) {
		j.forwarders = append(j.forwarders, forwarders...)
	}
}

func WithClock(now func() time.Time) Option {
	return func(j *journal) {
		j.now = now
	}
}

type journal struct {
	mu         sync.RWMutex
	events     []domainSecurity.Event
	capacity   int
	logger     *logrus.Logger
	forwarders []domainSecurity.Forwarder
	now        func() time.Time
}

func NewJournal(logger *logrus.Logger, opts ...Option) Journal {
	j := &journal{
		capacity: DefaultCapacity,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}
	j.events = make([]domainSecurity.Event, 0, j.capacity)
	return j
}

func (j *journal) Log(event domainSecurity.Event) {
	event = cloneEvent(event)
	event.Timestamp = j.now()
	if event.Severity == "" {
		event.Severity = domainSecurity.SeverityLow
	}

	j.mu.Lock()
	j.events = append(j.events, event)
	if overflow := len(j.events) - j.capacity; overflow > 0 {
		j.events = append(j.events[:0:0], j.events[overflow:]...)
	}
	j.mu.Unlock()

	j.emit(event)
	j.forward(cloneEvent(event))
}

func (j *journal) emit(event domainSecurity.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		payload = []byte("{}")
	}
	entry := j.logger.WithFields(logrus.Fields{
		"event_type": event.Type,
		"severity":   event.Severity,
		"ip":         event.IP,
		"path":       event.Path,
	})
	msg := fmt.Sprintf("%s %s: %s", journalMessagePrefix, strings.ToUpper(string(event.Type)), payload)
	switch event.Severity {
	case domainSecurity.SeverityLow:
		entry.Info(msg)
	case domainSecurity.SeverityMedium:
		entry.Warn(msg)
	default:
		entry.Error(msg)
	}
}

func (j *journal) forward(event domainSecurity.Event) {
	for _, f := range j.forwarders {
		func() {
			defer func() {
				if r := recover(); r != nil {
					j.logger.WithField("panic", r).Error("security event forwarder panicked")
				}
			}()
			if err := f.Forward(event); err != nil {
				j.logger.WithError(err).Warn("failed to forward security event")
			}
		}()
	}
}

func (j *journal) Recent(limit int) []domainSecurity.Event {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	j.mu.RLock()
	defer j.mu.RUnlock()
	return tail(j.events, limit)
}

func (j *journal) ByType(eventType domainSecurity.EventType, limit int) []domainSecurity.Event {
	return j.filter(limit, func(e domainSecurity.Event) bool { return e.Type == eventType })
}

func (j *journal) BySeverity(severity domainSecurity.Severity, limit int) []domainSecurity.Event {
	return j.filter(limit, func(e domainSecurity.Event) bool { return e.Severity == severity })
}

func (j *journal) filter(limit int, keep func(domainSecurity.Event) bool) []domainSecurity.Event {
	if limit <= 0 {
		limit = DefaultFilteredLimit
	}
	j.mu.RLock()
	defer j.mu.RUnlock()
	matched := make([]domainSecurity.Event, 0)
	for _, e := range j.events {
		if keep(e) {
			matched = append(matched, e)
		}
	}
	return tail(matched, limit)
}

func (j *journal) Metrics(hours int) domainSecurity.Metrics {
	if hours <= 0 {
		hours = DefaultMetricsHours
	}
	since := j.now().Add(-time.Duration(hours) * time.Hour)

	m := domainSecurity.Metrics{
		EventsByType:     make(map[domainSecurity.EventType]int),
		EventsBySeverity: make(map[domainSecurity.Severity]int),
		TopIPs:           make([]domainSecurity.IPCount, 0),
	}
	ipCounts := make(map[string]int)

	j.mu.RLock()
	for _, e := range j.events {
		if e.Timestamp.Before(since) {
			continue
		}
		m.TotalEvents++
		m.EventsByType[e.Type]++
		m.EventsBySeverity[e.Severity]++
		if e.IP != "" {
			ipCounts[e.IP]++
		}
		if e.Severity == domainSecurity.SeverityHigh || e.Severity == domainSecurity.SeverityCritical {
			m.SuspiciousActivity++
		}
	}
	j.mu.RUnlock()

	for ip, count := range ipCounts {
		m.TopIPs = append(m.TopIPs, domainSecurity.IPCount{IP: ip, Count: count})
	}
	sort.Slice(m.TopIPs, func(a, b int) bool {
		if m.TopIPs[a].Count != m.TopIPs[b].Count {
			return m.TopIPs[a].Count > m.TopIPs[b].Count
		}
		return m.TopIPs[a].IP < m.TopIPs[b].IP
	})
	if len(m.TopIPs) > topIPsLimit {
		m.TopIPs = m.TopIPs[:topIPsLimit]
	}
	return m
}

func tail(events []domainSecurity.Event, limit int) []domainSecurity.Event {
	start := len(events) - limit
	if start < 0 {
		start = 0
	}
	out := make([]domainSecurity.Event, 0, len(events)-start)
	for _, e := range events[start:] {
		out = append(out, cloneEvent(e))
	}
	return out
}

// cloneEvent copies Details so journaled events stay immutable.
func cloneEvent(e domainSecurity.Event) domainSecurity.Event {
	if e.Details != nil {
		details := make(map[string]any, len(e.Details))
		for k, v := range e.Details {
			details[k] = v
		}
		e.Details = details
	}
	return e
}
