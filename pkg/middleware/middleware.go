package middleware

import "github.com/gofiber/fiber/v2"

type Middleware interface {
	Middleware() fiber.Handler
}

// Transport holds the edge chain in the order the router registers it.
type Transport struct {
	PanicRecoverMiddleware    Middleware
	RequestIDMiddleware       Middleware
	SecurityHeadersMiddleware Middleware
	RateLimitMiddleware       Middleware
	AccessLogMiddleware       Middleware
	MetricsMiddleware         Middleware
	AdminAuthMiddleware       Middleware
}

// Chain returns the global handlers in registration order, skipping unset ones.
func (t *Transport) Chain() []fiber.Handler {
	ordered := []Middleware{
		t.PanicRecoverMiddleware,
		t.RequestIDMiddleware,
		t.SecurityHeadersMiddleware,
		t.RateLimitMiddleware,
		t.AccessLogMiddleware,
		t.MetricsMiddleware,
	}
	handlers := make([]fiber.Handler, 0, len(ordered))
	for _, m := range ordered {
		if m != nil {
			handlers = append(handlers, m.Middleware())
		}
	}
	return handlers
}
