package http

import (
	"github.com/devopsinterview/storefront/pkg/version"
	"github.com/gofiber/fiber/v2"
)

type pingHandler struct{}

func NewPingHandler() Handler {
	return &pingHandler{}
}

func (h *pingHandler) Handle(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
}

type versionHandler struct{}

func NewVersionHandler() Handler {
	return &versionHandler{}
}

func (h *versionHandler) Handle(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(version.GetInfo())
}
