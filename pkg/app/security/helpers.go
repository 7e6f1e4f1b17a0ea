package security

import (
	"fmt"

	domainSecurity "github.com/devopsinterview/storefront/pkg/domain/security"
)

func (j *journal) LogRateLimit(ip, path string) {
	j.Log(domainSecurity.Event{
		Type:     domainSecurity.EventRateLimit,
		IP:       ip,
		Path:     path,
		Severity: domainSecurity.SeverityMedium,
		Details:  map[string]any{"reason": "Rate limit exceeded"},
	})
}

func (j *journal) LogAuthFailure(ip, userAgent string, details map[string]any) {
	j.Log(domainSecurity.Event{
		Type:      domainSecurity.EventAuthFailure,
		IP:        ip,
		UserAgent: userAgent,
		Severity:  domainSecurity.SeverityHigh,
		Details:   details,
	})
}

func (j *journal) LogSuspiciousActivity(ip, path, reason string, severity domainSecurity.Severity) {
	if severity == "" {
		severity = domainSecurity.SeverityHigh
	}
	j.Log(domainSecurity.Event{
		Type:     domainSecurity.EventSuspiciousActivity,
		IP:       ip,
		Path:     path,
		Severity: severity,
		Details:  map[string]any{"reason": reason},
	})
}

func (j *journal) LogAPIAccess(method, path, ip, userAgent string, statusCode int) {
	j.Log(domainSecurity.Event{
		Type:      domainSecurity.EventAPIAccess,
		Method:    method,
		Path:      path,
		IP:        ip,
		UserAgent: userAgent,
		Severity:  domainSecurity.SeverityLow,
		Details:   map[string]any{"statusCode": statusCode},
	})
}

func (j *journal) LogSecurityError(err error, context map[string]any) {
	details := make(map[string]any, len(context)+2)
	for k, v := range context {
		details[k] = v
	}
	if err != nil {
		details["message"] = err.Error()
		details["error"] = fmt.Sprintf("%+v", err)
	}
	j.Log(domainSecurity.Event{
		Type:     domainSecurity.EventError,
		Severity: domainSecurity.SeverityHigh,
		Details:  details,
	})
}
