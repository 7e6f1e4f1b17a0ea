package middleware

import (
	"crypto/rand"
	"encoding/base64"
	"strings"

	"github.com/devopsinterview/storefront/pkg/common"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const scriptSources = "https://js.stripe.com https://www.googletagmanager.com https://www.google-analytics.com"

var staticSecurityHeaders = map[string]string{
	"X-Frame-Options":           "DENY",
	"X-Content-Type-Options":    "nosniff",
	"Referrer-Policy":           "strict-origin-when-cross-origin",
	"X-XSS-Protection":          "1; mode=block",
	"Strict-Transport-Security": "max-age=31536000; includeSubDomains; preload",
	"Permissions-Policy":        "camera=(), microphone=(), geolocation=(), interest-cohort=()",
}

type securityHeadersMiddleware struct {
	logger     *logrus.Logger
	production bool
	devPolicy  string
}

func NewSecurityHeadersMiddleware(logger *logrus.Logger, production bool) Middleware {
	return &securityHeadersMiddleware{
		logger:     logger,
		production: production,
		devPolicy:  ContentSecurityPolicy("'unsafe-eval' 'unsafe-inline'"),
	}
}

// ContentSecurityPolicy renders the policy with the given script-src directive tokens.
func ContentSecurityPolicy(scriptTokens string) string {
	scriptSrc := "script-src 'self' " + scriptSources
	if scriptTokens != "" {
		scriptSrc = "script-src 'self' " + scriptTokens + " " + scriptSources
	}
	return strings.Join([]string{
		"default-src 'self'",
		scriptSrc,
		"style-src 'self' 'unsafe-inline' https://fonts.googleapis.com",
		"font-src 'self' https://fonts.gstatic.com data:",
		"img-src 'self' data: https: blob:",
		"connect-src 'self' https://api.stripe.com https://www.google-analytics.com https://*.supabase.co https://api.resend.com",
		"frame-src https://js.stripe.com https://hooks.stripe.com",
		"object-src 'none'",
		"base-uri 'self'",
		"form-action 'self'",
		"frame-ancestors 'none'",
		"upgrade-insecure-requests",
	}, "; ")
}

func (m *securityHeadersMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		for k, v := range staticSecurityHeaders {
			c.Set(k, v)
		}

		policy := m.devPolicy
		if m.production {
			nonce, err := newNonce()
			if err != nil {
				m.logger.WithError(err).Error("failed to generate CSP nonce")
				policy = ContentSecurityPolicy("")
			} else {
				c.Locals(common.CSPNonceContextKey, nonce)
				policy = ContentSecurityPolicy("'nonce-" + nonce + "'")
			}
		}
		c.Set("Content-Security-Policy", policy)

		return c.Next()
	}
}

func newNonce() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}
