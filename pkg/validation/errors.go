package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	CodeInvalidType      = "invalid_type"
	CodeInvalidString    = "invalid_string"
	CodeTooSmall         = "too_small"
	CodeTooBig           = "too_big"
	CodeInvalidEnumValue = "invalid_enum_value"
	CodeUnrecognizedKeys = "unrecognized_keys"
	CodeCustom           = "custom"
	CodeCSRFProtection   = "CSRF_PROTECTION"
)

// Error is a rejected request. Field and Code are empty for failures that are
// not tied to a single input field.
type Error struct {
	Message string
	Field   string
	Code    string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) StatusCode() int {
	if e.Code == CodeCSRFProtection {
		return fiber.StatusForbidden
	}
	return fiber.StatusBadRequest
}

func NewError(message, field, code string) *Error {
	return &Error{Message: message, Field: field, Code: code}
}

// AsError extracts a validation error from err.
func AsError(err error) (*Error, bool) {
	var vErr *Error
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}

type issue struct {
	path    []string
	code    string
	message string
}

func (i *issue) field() string {
	return strings.Join(i.path, ".")
}

func (i *issue) toError(prefix string) *Error {
	field := i.field()
	return &Error{
		Message: fmt.Sprintf("%s %s: %s", prefix, field, i.message),
		Field:   field,
		Code:    i.code,
	}
}
