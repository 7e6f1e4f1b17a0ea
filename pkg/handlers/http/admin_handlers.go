package http

import (
	"time"

	appRatelimit "github.com/devopsinterview/storefront/pkg/app/ratelimit"
	appSecurity "github.com/devopsinterview/storefront/pkg/app/security"
	"github.com/devopsinterview/storefront/pkg/domain/ratelimit"
	domainSecurity "github.com/devopsinterview/storefront/pkg/domain/security"
	"github.com/devopsinterview/storefront/pkg/handlers/http/request"
	"github.com/devopsinterview/storefront/pkg/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type securityEventsHandler struct {
	logger  *logrus.Logger
	journal appSecurity.Journal
}

func NewSecurityEventsHandler(logger *logrus.Logger, journal appSecurity.Journal) Handler {
	return &securityEventsHandler{logger: logger, journal: journal}
}

func (h *securityEventsHandler) Handle(c *fiber.Ctx) error {
	q, err := validation.ValidateQueryParams[request.SecurityEventsQuery](c, validation.SecurityEventsQuerySchema)
	if err != nil {
		return respondInvalid(c, h.logger, "security-events", err)
	}

	var events []domainSecurity.Event
	switch {
	case q.Type != "":
		events = h.journal.ByType(domainSecurity.EventType(q.Type), q.Limit)
	case q.Severity != "":
		events = h.journal.BySeverity(domainSecurity.Severity(q.Severity), q.Limit)
	default:
		events = h.journal.Recent(q.Limit)
	}
	if events == nil {
		events = []domainSecurity.Event{}
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"events": events, "count": len(events)})
}

type securityMetricsHandler struct {
	logger  *logrus.Logger
	journal appSecurity.Journal
}

func NewSecurityMetricsHandler(logger *logrus.Logger, journal appSecurity.Journal) Handler {
	return &securityMetricsHandler{logger: logger, journal: journal}
}

func (h *securityMetricsHandler) Handle(c *fiber.Ctx) error {
	q, err := validation.ValidateQueryParams[request.SecurityMetricsQuery](c, validation.SecurityMetricsQuerySchema)
	if err != nil {
		return respondInvalid(c, h.logger, "security-metrics", err)
	}
	return c.Status(fiber.StatusOK).JSON(h.journal.Metrics(q.Hours))
}

type rateLimitStatusHandler struct {
	logger  *logrus.Logger
	limiter appRatelimit.Limiter
}

func NewRateLimitStatusHandler(logger *logrus.Logger, limiter appRatelimit.Limiter) Handler {
	return &rateLimitStatusHandler{logger: logger, limiter: limiter}
}

func (h *rateLimitStatusHandler) Handle(c *fiber.Ctx) error {
	q, err := validation.ValidateQueryParams[request.RateLimitStatusQuery](c, validation.RateLimitStatusQuerySchema)
	if err != nil {
		return respondInvalid(c, h.logger, "ratelimit-status", err)
	}

	endpoint := appRatelimit.ResolveEndpoint("", q.Endpoint)
	res := h.limiter.Status(c.Context(), appRatelimit.Request{ForwardedFor: q.IP}, endpoint)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"ip":        q.IP,
		"endpoint":  endpoint,
		"allowed":   res.Success,
		"limit":     res.Limit,
		"remaining": res.Remaining,
		"resetAt":   res.ResetAt.UnixMilli(),
	})
}

type rateLimitPolicyHandler struct {
	logger  *logrus.Logger
	limiter appRatelimit.Limiter
}

func NewRateLimitPolicyHandler(logger *logrus.Logger, limiter appRatelimit.Limiter) Handler {
	return &rateLimitPolicyHandler{logger: logger, limiter: limiter}
}

func (h *rateLimitPolicyHandler) Handle(c *fiber.Ctx) error {
	endpoint := c.Params("endpoint")
	if endpoint == "" || len(endpoint) > 64 {
		return respondInvalid(c, h.logger, "ratelimit-policy", validation.NewError("Invalid endpoint", "endpoint", validation.CodeInvalidString))
	}

	req, err := validation.ValidateBody[request.RateLimitPolicyRequest](c, validation.RateLimitPolicySchema)
	if err != nil {
		return respondInvalid(c, h.logger, "ratelimit-policy", err)
	}

	policy := ratelimit.Policy{
		Window:      time.Duration(req.WindowSeconds) * time.Second,
		MaxRequests: req.MaxRequests,
		Message:     req.Message,
	}
	h.limiter.Configure(endpoint, policy)
	h.logger.WithFields(logrus.Fields{
		"endpoint":     endpoint,
		"window":       policy.Window.String(),
		"max_requests": policy.MaxRequests,
	}).Info("rate limit policy updated")

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"endpoint":      endpoint,
		"windowSeconds": req.WindowSeconds,
		"maxRequests":   req.MaxRequests,
		"message":       req.Message,
	})
}
