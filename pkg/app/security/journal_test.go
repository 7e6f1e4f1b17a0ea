package security_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/devopsinterview/storefront/pkg/app/security"
	domainSecurity "github.com/devopsinterview/storefront/pkg/domain/security"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

type failingForwarder struct {
	calls int
	panic bool
}

func (f *failingForwarder) Forward(domainSecurity.Event) error {
	f.calls++
	if f.panic {
		panic("sink down")
	}
	return errors.New("sink down")
}

func newJournal(opts ...security.Option) (security.Journal, *test.Hook) {
	logger, hook := test.NewNullLogger()
	return security.NewJournal(logger, opts...), hook
}

func TestJournal_BoundedCapacity(t *testing.T) {
	j, _ := newJournal()

	for i := 0; i < 1001; i++ {
		j.Log(domainSecurity.Event{
			Type:     domainSecurity.EventAPIAccess,
			Severity: domainSecurity.SeverityLow,
			Path:     fmt.Sprintf("/api/%d", i),
		})
	}

	all := j.Recent(5000)
	require.Len(t, all, 1000)
	assert.Equal(t, "/api/1", all[0].Path)
	assert.Equal(t, "/api/1000", all[len(all)-1].Path)
}

func TestJournal_RecentDefaultsAndOrder(t *testing.T) {
	j, _ := newJournal()
	for i := 0; i < 60; i++ {
		j.Log(domainSecurity.Event{Type: domainSecurity.EventAPIAccess, Path: fmt.Sprintf("/p/%d", i)})
	}

	recent := j.Recent(0)
	require.Len(t, recent, 50)
	assert.Equal(t, "/p/10", recent[0].Path)
	assert.Equal(t, "/p/59", recent[49].Path)

	recent[0].Path = "mutated"
	assert.Equal(t, "/p/10", j.Recent(0)[0].Path)
}

func TestJournal_FilteredViews(t *testing.T) {
	j, _ := newJournal()
	for i := 0; i < 25; i++ {
		j.LogRateLimit("10.0.0.1", "/api/checkout")
		j.LogAPIAccess("GET", "/api/ebooks", "10.0.0.2", "curl", 200)
	}

	rateLimited := j.ByType(domainSecurity.EventRateLimit, 0)
	assert.Len(t, rateLimited, 20)
	for _, e := range rateLimited {
		assert.Equal(t, domainSecurity.SeverityMedium, e.Severity)
	}

	low := j.BySeverity(domainSecurity.SeverityLow, 3)
	assert.Len(t, low, 3)
	for _, e := range low {
		assert.Equal(t, domainSecurity.EventAPIAccess, e.Type)
	}
}

func TestJournal_Metrics(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	j, _ := newJournal(security.WithClock(clock.Now))

	j.LogRateLimit("1.1.1.1", "/api/checkout")
	clock.now = clock.now.Add(25 * time.Hour)

	for i := 0; i < 3; i++ {
		j.LogAuthFailure("2.2.2.2", "curl", nil)
	}
	j.LogSuspiciousActivity("3.3.3.3", "/api/x", "scan", domainSecurity.SeverityCritical)
	j.LogAPIAccess("GET", "/api/ebooks", "3.3.3.3", "ua", 200)
	j.LogSecurityError(errors.New("boom"), map[string]any{"endpoint": "checkout"})

	m := j.Metrics(24)
	assert.Equal(t, 6, m.TotalEvents)
	assert.Equal(t, 3, m.EventsByType[domainSecurity.EventAuthFailure])
	assert.Equal(t, 0, m.EventsByType[domainSecurity.EventRateLimit])
	assert.Equal(t, 5, m.SuspiciousActivity)
	require.Len(t, m.TopIPs, 2)
	assert.Equal(t, domainSecurity.IPCount{IP: "2.2.2.2", Count: 3}, m.TopIPs[0])
	assert.Equal(t, domainSecurity.IPCount{IP: "3.3.3.3", Count: 2}, m.TopIPs[1])

	all := j.Metrics(48)
	assert.Equal(t, 7, all.TotalEvents)
}

func TestJournal_TopIPsCappedAtTen(t *testing.T) {
	j, _ := newJournal()
	for i := 0; i < 15; i++ {
		for k := 0; k <= i; k++ {
			j.LogRateLimit(fmt.Sprintf("10.0.0.%d", i), "/api/checkout")
		}
	}
	m := j.Metrics(0)
	require.Len(t, m.TopIPs, 10)
	assert.Equal(t, "10.0.0.14", m.TopIPs[0].IP)
	assert.Equal(t, 15, m.TopIPs[0].Count)
}

func TestJournal_LogLevels(t *testing.T) {
	j, hook := newJournal()

	j.LogAPIAccess("GET", "/api/ebooks", "1.1.1.1", "ua", 200)
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
	assert.Contains(t, hook.LastEntry().Message, "[SECURITY] API_ACCESS:")

	j.LogRateLimit("1.1.1.1", "/api/checkout")
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)

	j.LogAuthFailure("1.1.1.1", "ua", nil)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)

	j.LogSuspiciousActivity("1.1.1.1", "/", "scan", domainSecurity.SeverityCritical)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func TestJournal_HelperDefaults(t *testing.T) {
	j, _ := newJournal()

	j.LogSuspiciousActivity("1.1.1.1", "/api/x", "odd", "")
	e := j.Recent(1)[0]
	assert.Equal(t, domainSecurity.SeverityHigh, e.Severity)
	assert.Equal(t, "odd", e.Details["reason"])

	j.LogSecurityError(errors.New("redis down"), map[string]any{"endpoint": "checkout"})
	e = j.Recent(1)[0]
	assert.Equal(t, domainSecurity.EventError, e.Type)
	assert.Equal(t, "redis down", e.Details["message"])
	assert.Equal(t, "checkout", e.Details["endpoint"])
	assert.False(t, e.Timestamp.IsZero())
}

func TestJournal_ForwarderFailuresAreSwallowed(t *testing.T) {
	erroring := &failingForwarder{}
	panicking := &failingForwarder{panic: true}
	j, _ := newJournal(security.WithForwarders(erroring, panicking))

	assert.NotPanics(t, func() {
		j.LogRateLimit("1.1.1.1", "/api/checkout")
	})
	assert.Equal(t, 1, erroring.calls)
	assert.Equal(t, 1, panicking.calls)
	assert.Len(t, j.Recent(0), 1)
}

func TestJournal_EventsAreNotMutatedByCallers(t *testing.T) {
	j, _ := newJournal()

	details := map[string]any{"reason": "original"}
	j.Log(domainSecurity.Event{Type: domainSecurity.EventAuthFailure, IP: "203.0.113.1", Details: details})

	details["reason"] = "changed by caller"
	details["extra"] = true

	recent := j.Recent(1)
	require.Len(t, recent, 1)
	assert.Equal(t, map[string]any{"reason": "original"}, recent[0].Details)

	recent[0].Details["reason"] = "changed by reader"
	byType := j.ByType(domainSecurity.EventAuthFailure, 1)
	require.Len(t, byType, 1)
	assert.Equal(t, "original", byType[0].Details["reason"])
}
