package middleware

import (
	"strings"

	appSecurity "github.com/devopsinterview/storefront/pkg/app/security"
	"github.com/devopsinterview/storefront/pkg/infra/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const bearerPrefix = "Bearer "

type adminAuthMiddleware struct {
	logger     *logrus.Logger
	jwtManager jwt.Manager
	journal    appSecurity.Journal
}

func NewAdminAuthMiddleware(
	logger *logrus.Logger,
	jwtManager jwt.Manager,
	journal appSecurity.Journal,
) Middleware {
	return &adminAuthMiddleware{
		logger:     logger,
		jwtManager: jwtManager,
		journal:    journal,
	}
}

func (m *adminAuthMiddleware) Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return m.reject(ctx, "Authorization required", "missing authorization header")
		}
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			return m.reject(ctx, "Invalid authorization format", "invalid authorization format")
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
		if tokenString == "" {
			return m.reject(ctx, "Empty token provided", "empty token")
		}

		if _, err := m.jwtManager.ValidateToken(tokenString); err != nil {
			m.logger.WithError(err).Debug("invalid admin token")
			return m.reject(ctx, "Invalid token", err.Error())
		}

		return ctx.Next()
	}
}

func (m *adminAuthMiddleware) reject(ctx *fiber.Ctx, message, reason string) error {
	m.journal.LogAuthFailure(ClientIP(ctx), ctx.Get(fiber.HeaderUserAgent), map[string]any{
		"reason": reason,
		"path":   ctx.Path(),
		"method": ctx.Method(),
	})
	return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": message})
}
