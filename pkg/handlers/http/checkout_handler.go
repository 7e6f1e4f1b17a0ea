package http

import (
	"errors"

	"github.com/devopsinterview/storefront/pkg/app/checkout"
	"github.com/devopsinterview/storefront/pkg/domain"
	"github.com/devopsinterview/storefront/pkg/handlers/http/request"
	"github.com/devopsinterview/storefront/pkg/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type checkoutHandler struct {
	logger      *logrus.Logger
	service     checkout.Service
	maxBodySize int64
}

func NewCheckoutHandler(logger *logrus.Logger, service checkout.Service, maxBodySize int64) Handler {
	return &checkoutHandler{
		logger:      logger,
		service:     service,
		maxBodySize: maxBodySize,
	}
}

func (h *checkoutHandler) Handle(c *fiber.Ctx) error {
	req, err := validation.SecureValidateBody[request.CheckoutRequest](c, validation.CheckoutSchema, validation.SecureOptions{
		MaxBodySize: h.maxBodySize,
	})
	if err != nil {
		return respondInvalid(c, h.logger, "checkout", err)
	}

	res, err := h.service.Start(c.Context(), checkout.StartInput{
		EbookID:       req.EbookID,
		CustomerEmail: req.CustomerEmail,
		SuccessURL:    req.SuccessURL,
		CancelURL:     req.CancelURL,
		Metadata:      req.Metadata,
	})
	if err != nil {
		switch {
		case domain.IsNotFoundError(err):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "ebook not found"})
		case errors.Is(err, domain.ErrNotPurchasable):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		h.logger.WithError(err).WithField("ebook_id", req.EbookID.String()).Error("checkout failed")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to create checkout session"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"sessionId": res.SessionID,
		"url":       res.URL,
		"orderId":   res.OrderID,
	})
}
