package http

import (
	"errors"

	"github.com/devopsinterview/storefront/pkg/app/checkout"
	"github.com/devopsinterview/storefront/pkg/domain"
	"github.com/devopsinterview/storefront/pkg/domain/ebook"
	"github.com/devopsinterview/storefront/pkg/handlers/http/request"
	"github.com/devopsinterview/storefront/pkg/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type downloadHandler struct {
	logger  *logrus.Logger
	service checkout.Service
}

func NewDownloadHandler(logger *logrus.Logger, service checkout.Service) Handler {
	return &downloadHandler{logger: logger, service: service}
}

func (h *downloadHandler) Handle(c *fiber.Ctx) error {
	q, err := validation.ValidateQueryParams[request.DownloadQuery](c, validation.DownloadSchema)
	if err != nil {
		return respondInvalid(c, h.logger, "download", err)
	}

	dl, err := h.service.AuthorizeDownload(c.Context(), q.EbookID, q.OrderID, ebook.Format(q.Format))
	if err != nil {
		switch {
		case domain.IsNotFoundError(err):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "order not found"})
		case errors.Is(err, domain.ErrOrderMismatch), errors.Is(err, domain.ErrOrderNotPaid):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, domain.ErrDownloadExpired):
			return c.Status(fiber.StatusGone).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, domain.ErrFormatMissing):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		h.logger.WithError(err).Error("failed to authorize download")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to authorize download"})
	}

	h.logger.WithFields(logrus.Fields{
		"order_id": dl.Order.ID.String(),
		"ebook":    dl.Ebook.Slug,
		"format":   string(dl.Format),
	}).Info("download authorized")
	return c.Redirect(dl.URL, fiber.StatusFound)
}
