package http

import (
	"errors"

	"github.com/devopsinterview/storefront/pkg/app/checkout"
	appSecurity "github.com/devopsinterview/storefront/pkg/app/security"
	"github.com/devopsinterview/storefront/pkg/domain/payment"
	"github.com/devopsinterview/storefront/pkg/handlers/http/request"
	"github.com/devopsinterview/storefront/pkg/middleware"
	"github.com/devopsinterview/storefront/pkg/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type stripeWebhookHandler struct {
	logger  *logrus.Logger
	service checkout.Service
	journal appSecurity.Journal
}

func NewStripeWebhookHandler(logger *logrus.Logger, service checkout.Service, journal appSecurity.Journal) Handler {
	return &stripeWebhookHandler{
		logger:  logger,
		service: service,
		journal: journal,
	}
}

// Handle verifies the raw body signature before anything is decoded.
func (h *stripeWebhookHandler) Handle(c *fiber.Ctx) error {
	headers, err := validation.ValidateHeaders[request.WebhookHeaders](c, validation.WebhookHeadersSchema)
	if err != nil {
		h.journal.LogAuthFailure(middleware.ClientIP(c), c.Get(fiber.HeaderUserAgent), map[string]any{
			"reason": "missing webhook signature",
			"path":   c.Path(),
		})
		return respondInvalid(c, h.logger, "stripe-webhook", err)
	}

	outcome, err := h.service.HandleWebhook(c.Context(), c.Body(), headers.Signature)
	if err != nil {
		if errors.Is(err, payment.ErrInvalidSignature) {
			h.journal.LogAuthFailure(middleware.ClientIP(c), c.Get(fiber.HeaderUserAgent), map[string]any{
				"reason": "invalid webhook signature",
				"path":   c.Path(),
			})
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid signature"})
		}
		h.logger.WithError(err).Error("webhook processing failed")
		h.journal.LogSecurityError(err, map[string]any{"path": c.Path(), "operation": "stripe-webhook"})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Webhook processing failed"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"received": true, "outcome": outcome})
}
