package validation

import (
	"time"

	"github.com/devopsinterview/storefront/pkg/common"
	"github.com/gofiber/fiber/v2"
)

// RespondError writes the structured validation error body.
func RespondError(c *fiber.Ctx, err *Error) error {
	body := fiber.Map{
		"error":     "Validation Error",
		"message":   err.Message,
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	}
	if err.Field != "" {
		body["field"] = err.Field
	}
	if err.Code != "" {
		body["code"] = err.Code
	}
	c.Set(common.HeaderValidationError, "true")
	return c.Status(err.StatusCode()).JSON(body)
}

func RespondSuccess(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{
		"success":   true,
		"data":      data,
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	})
}
