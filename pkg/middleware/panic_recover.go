package middleware

import (
	"fmt"

	appSecurity "github.com/devopsinterview/storefront/pkg/app/security"
	"github.com/devopsinterview/storefront/pkg/common"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type panicRecoverMiddleware struct {
	logger  *logrus.Logger
	journal appSecurity.Journal
}

func NewPanicRecoverMiddleware(logger *logrus.Logger, journal appSecurity.Journal) Middleware {
	return &panicRecoverMiddleware{logger: logger, journal: journal}
}

func (m *panicRecoverMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				requestID, _ := c.Locals(common.RequestIDContextKey).(string)
				m.logger.WithFields(logrus.Fields{
					"error":      r,
					"path":       c.Path(),
					"request_id": requestID,
				}).Error("HTTP server panic recovered")
				m.journal.LogSecurityError(fmt.Errorf("panic: %v", r), map[string]any{
					"path":      c.Path(),
					"method":    c.Method(),
					"requestId": requestID,
				})

				err = c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "Internal server error",
				})
			}
		}()

		return c.Next()
	}
}
