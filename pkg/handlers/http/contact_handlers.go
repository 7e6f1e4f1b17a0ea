package http

import (
	"github.com/devopsinterview/storefront/pkg/app/notification"
	"github.com/devopsinterview/storefront/pkg/handlers/http/request"
	"github.com/devopsinterview/storefront/pkg/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type newsletterHandler struct {
	logger      *logrus.Logger
	notifier    notification.Notifier
	maxBodySize int64
}

func NewNewsletterHandler(logger *logrus.Logger, notifier notification.Notifier, maxBodySize int64) Handler {
	return &newsletterHandler{logger: logger, notifier: notifier, maxBodySize: maxBodySize}
}

func (h *newsletterHandler) Handle(c *fiber.Ctx) error {
	req, err := validation.SecureValidateBody[request.NewsletterRequest](c, validation.NewsletterSchema, validation.SecureOptions{
		MaxBodySize: h.maxBodySize,
	})
	if err != nil {
		return respondInvalid(c, h.logger, "newsletter", err)
	}

	if err := h.notifier.SendNewsletterConfirmation(c.Context(), req.Email, req.Name); err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to subscribe"})
	}
	return validation.RespondSuccess(c, fiber.StatusOK, fiber.Map{"subscribed": true})
}

type contactHandler struct {
	logger      *logrus.Logger
	notifier    notification.Notifier
	maxBodySize int64
}

func NewContactHandler(logger *logrus.Logger, notifier notification.Notifier, maxBodySize int64) Handler {
	return &contactHandler{logger: logger, notifier: notifier, maxBodySize: maxBodySize}
}

func (h *contactHandler) Handle(c *fiber.Ctx) error {
	req, err := validation.SecureValidateBody[request.ContactRequest](c, validation.ContactFormSchema, validation.SecureOptions{
		MaxBodySize: h.maxBodySize,
	})
	if err != nil {
		return respondInvalid(c, h.logger, "contact", err)
	}

	err = h.notifier.SendContactNotification(c.Context(), notification.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to send message"})
	}
	return validation.RespondSuccess(c, fiber.StatusOK, fiber.Map{"sent": true})
}
