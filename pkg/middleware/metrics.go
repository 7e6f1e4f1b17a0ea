package middleware

import (
	"errors"
	"strconv"
	"time"

	"github.com/devopsinterview/storefront/pkg/common"
	"github.com/devopsinterview/storefront/pkg/infra/prometheus"
	"github.com/gofiber/fiber/v2"
)

const unmatchedRoute = "unmatched"

type metricsMiddleware struct {
	enabled bool
}

func NewMetricsMiddleware(enabled bool) Middleware {
	return &metricsMiddleware{enabled: enabled}
}

func (m *metricsMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		c.Locals(common.LatencyContextKey, start)

		err := c.Next()
		if !m.enabled {
			return err
		}

		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		route := unmatchedRoute
		if r := c.Route(); r != nil && r.Path != "" && r.Path != "/" {
			route = r.Path
		}
		method := c.Method()
		prometheus.RequestTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		prometheus.RequestLatency.WithLabelValues(method, route).
			Observe(float64(time.Since(start).Microseconds()) / 1000)
		return err
	}
}
