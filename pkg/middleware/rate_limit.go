package middleware

import (
	"sort"
	"strconv"
	"strings"
	"time"

	appRatelimit "github.com/devopsinterview/storefront/pkg/app/ratelimit"
	"github.com/devopsinterview/storefront/pkg/common"
	"github.com/devopsinterview/storefront/pkg/domain/ratelimit"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type binding struct {
	prefix   string
	endpoint string
}

type rateLimitMiddleware struct {
	logger   *logrus.Logger
	limiter  appRatelimit.Limiter
	bindings []binding
	now      func() time.Time
}

// NewRateLimitMiddleware limits requests whose path starts with one of the
// configured prefixes, using the endpoint name bound to the longest match.
func NewRateLimitMiddleware(
	logger *logrus.Logger,
	limiter appRatelimit.Limiter,
	paths map[string]string,
) Middleware {
	bindings := make([]binding, 0, len(paths))
	for prefix, endpoint := range paths {
		bindings = append(bindings, binding{prefix: prefix, endpoint: endpoint})
	}
	sort.Slice(bindings, func(i, j int) bool {
		if len(bindings[i].prefix) != len(bindings[j].prefix) {
			return len(bindings[i].prefix) > len(bindings[j].prefix)
		}
		return bindings[i].prefix < bindings[j].prefix
	})
	return &rateLimitMiddleware{
		logger:   logger,
		limiter:  limiter,
		bindings: bindings,
		now:      time.Now,
	}
}

func (m *rateLimitMiddleware) match(path string) (string, bool) {
	for _, b := range m.bindings {
		if strings.HasPrefix(path, b.prefix) {
			return b.endpoint, true
		}
	}
	return "", false
}

func (m *rateLimitMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		endpoint, ok := m.match(c.Path())
		if !ok {
			return c.Next()
		}

		result := m.limiter.Check(c.Context(), RequestFromCtx(c), endpoint)
		c.Locals(common.RateLimitContextKey, result)
		setRateLimitHeaders(c, result)

		if !result.Success {
			retryAfter := result.RetryAfter(m.now())
			c.Set(common.HeaderRetryAfter, strconv.FormatInt(retryAfter, 10))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":      result.Error,
				"retryAfter": retryAfter,
			})
		}
		return c.Next()
	}
}

func setRateLimitHeaders(c *fiber.Ctx, result ratelimit.Result) {
	c.Set(common.HeaderRateLimitLimit, strconv.Itoa(result.Limit))
	c.Set(common.HeaderRateLimitRemaining, strconv.Itoa(result.Remaining))
	c.Set(common.HeaderRateLimitReset, strconv.FormatInt(result.ResetAt.UnixMilli(), 10))
}

// RequestFromCtx extracts the limiter's view of the request.
func RequestFromCtx(c *fiber.Ctx) appRatelimit.Request {
	return appRatelimit.Request{
		Path:         c.Path(),
		ForwardedFor: c.Get(common.HeaderForwardedFor),
		RealIP:       c.Get(common.HeaderRealIP),
	}
}

// ClientIP identifies the caller the same way the limiter does.
func ClientIP(c *fiber.Ctx) string {
	return appRatelimit.ClientID(RequestFromCtx(c))
}
