package middleware

import (
	"errors"
	"strings"

	appSecurity "github.com/devopsinterview/storefront/pkg/app/security"
	domainSecurity "github.com/devopsinterview/storefront/pkg/domain/security"
	"github.com/devopsinterview/storefront/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

const unknownUserAgent = "unknown"

type accessLogMiddleware struct {
	journal        appSecurity.Journal
	protectedPaths []string
}

// NewAccessLogMiddleware journals API access and flags bots on protected
// prefixes. Bots are only reported, never blocked.
func NewAccessLogMiddleware(journal appSecurity.Journal, protectedPaths []string) Middleware {
	return &accessLogMiddleware{
		journal:        journal,
		protectedPaths: protectedPaths,
	}
}

func (m *accessLogMiddleware) protected(path string) bool {
	for _, p := range m.protectedPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func (m *accessLogMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		if !m.protected(path) {
			return c.Next()
		}

		ip := ClientIP(c)
		userAgent := c.Get(fiber.HeaderUserAgent)
		if userAgent == "" {
			userAgent = unknownUserAgent
		}
		info := utils.ParseUserAgent(userAgent, c.Get(fiber.HeaderAcceptLanguage))
		if info.Bot && !strings.Contains(path, "/robots.txt") {
			m.journal.Log(domainSecurity.Event{
				Type:      domainSecurity.EventSuspiciousActivity,
				IP:        ip,
				Path:      path,
				UserAgent: userAgent,
				Severity:  domainSecurity.SeverityMedium,
				Details: map[string]any{
					"reason":  "Bot accessing API endpoint",
					"device":  info.Device,
					"os":      info.OS,
					"browser": info.Browser,
					"locale":  info.Locale,
				},
			})
		}

		err := c.Next()

		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}
		m.journal.LogAPIAccess(c.Method(), path, ip, userAgent, status)
		return err
	}
}
