package http

import (
	"github.com/devopsinterview/storefront/pkg/domain"
	"github.com/devopsinterview/storefront/pkg/domain/ebook"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type listEbooksHandler struct {
	logger  *logrus.Logger
	catalog ebook.Catalog
}

func NewListEbooksHandler(logger *logrus.Logger, catalog ebook.Catalog) Handler {
	return &listEbooksHandler{logger: logger, catalog: catalog}
}

func (h *listEbooksHandler) Handle(c *fiber.Ctx) error {
	books, err := h.catalog.List(c.Context())
	if err != nil {
		h.logger.WithError(err).Error("failed to list ebooks")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list ebooks"})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ebooks": books})
}

type getEbookHandler struct {
	logger  *logrus.Logger
	catalog ebook.Catalog
}

func NewGetEbookHandler(logger *logrus.Logger, catalog ebook.Catalog) Handler {
	return &getEbookHandler{logger: logger, catalog: catalog}
}

func (h *getEbookHandler) Handle(c *fiber.Ctx) error {
	book, err := h.catalog.GetBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		if domain.IsNotFoundError(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "ebook not found"})
		}
		h.logger.WithError(err).Error("failed to get ebook")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to get ebook"})
	}
	return c.Status(fiber.StatusOK).JSON(book)
}
