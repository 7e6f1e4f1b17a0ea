package middleware

import (
	"regexp"

	"github.com/devopsinterview/storefront/pkg/common"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var upstreamRequestID = regexp.MustCompile(`^[A-Za-z0-9._\-]{8,128}$`)

type requestIDMiddleware struct{}

func NewRequestIDMiddleware() Middleware {
	return &requestIDMiddleware{}
}

// Middleware keeps a well-formed upstream X-Request-ID and otherwise mints a uuid.
func (m *requestIDMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(common.HeaderRequestID)
		if !upstreamRequestID.MatchString(id) {
			id = uuid.NewString()
		}
		c.Locals(common.RequestIDContextKey, id)
		c.Set(common.HeaderRequestID, id)
		return c.Next()
	}
}
