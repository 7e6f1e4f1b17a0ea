package security

import "time"

type EventType string

const (
	EventRateLimit          EventType = "rate_limit"
	EventAuthFailure        EventType = "auth_failure"
	EventSuspiciousActivity EventType = "suspicious_activity"
	EventAPIAccess          EventType = "api_access"
	EventError              EventType = "error"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

func (t EventType) Valid() bool {
	switch t {
	case EventRateLimit, EventAuthFailure, EventSuspiciousActivity, EventAPIAccess, EventError:
		return true
	}
	return false
}

func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// Event is one security-relevant observation. Events are immutable once logged.
type Event struct {
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	IP        string         `json:"ip,omitempty"`
	UserAgent string         `json:"userAgent,omitempty"`
	Path      string         `json:"path,omitempty"`
	Method    string         `json:"method,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	Severity  Severity       `json:"severity"`
}

type IPCount struct {
	IP    string `json:"ip"`
	Count int    `json:"count"`
}

type Metrics struct {
	TotalEvents        int               `json:"totalEvents"`
	EventsByType       map[EventType]int `json:"eventsByType"`
	EventsBySeverity   map[Severity]int  `json:"eventsBySeverity"`
	TopIPs             []IPCount         `json:"topIPs"`
	SuspiciousActivity int               `json:"suspiciousActivity"`
}

// Recorder accepts security events. Implementations never fail the caller.
type Recorder interface {
	Log(event Event)
}

// Forwarder receives a copy of every journaled event, e.g. for metrics or an
// external sink.
type Forwarder interface {
	Forward(event Event) error
}
