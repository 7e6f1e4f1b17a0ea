package http

import (
	"github.com/devopsinterview/storefront/pkg/infra/prometheus"
	"github.com/devopsinterview/storefront/pkg/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// respondInvalid writes a validation failure and counts it under route.
func respondInvalid(c *fiber.Ctx, logger *logrus.Logger, route string, err error) error {
	vErr, ok := validation.AsError(err)
	if !ok {
		logger.WithError(err).WithField("route", route).Error("unexpected validation failure")
		vErr = validation.NewError("Invalid request", "", "")
	}
	code := vErr.Code
	if code == "" {
		code = "malformed"
	}
	prometheus.ValidationFailures.WithLabelValues(route, code).Inc()
	return validation.RespondError(c, vErr)
}
