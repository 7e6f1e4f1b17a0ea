package router

import (
	"errors"

	handlers "github.com/devopsinterview/storefront/pkg/handlers/http"
	"github.com/devopsinterview/storefront/pkg/middleware"
	"github.com/gofiber/fiber/v2"
)

const (
	HealthPath = "/health"
	PingPath   = "/__/ping"
)

var ErrMissingAdminAuth = errors.New("admin routes require an auth middleware")

type storefrontRouter struct {
	middlewareTransport *middleware.Transport
	handlerTransport    *handlers.HandlerTransport
	staticDir           string
}

func NewStorefrontRouter(
	middlewareTransport *middleware.Transport,
	handlerTransport *handlers.HandlerTransport,
	staticDir string,
) ServerRouter {
	return &storefrontRouter{
		middlewareTransport: middlewareTransport,
		handlerTransport:    handlerTransport,
		staticDir:           staticDir,
	}
}

func (r *storefrontRouter) BuildRoutes(router *fiber.App) error {
	if r.middlewareTransport.AdminAuthMiddleware == nil {
		return ErrMissingAdminAuth
	}
	h := r.handlerTransport

	for _, m := range r.middlewareTransport.Chain() {
		router.Use(m)
	}

	router.Get(HealthPath, h.PingHandler.Handle)
	router.Get(PingPath, h.PingHandler.Handle)

	api := router.Group("/api")
	{
		api.Get("/health", h.HealthHandler.Handle)

		api.Get("/ebooks", h.ListEbooksHandler.Handle)
		api.Get("/ebooks/:slug", h.GetEbookHandler.Handle)

		api.Post("/checkout", h.CheckoutHandler.Handle)
		api.Post("/stripe-webhook", h.StripeWebhookHandler.Handle)
		api.Get("/download", h.DownloadHandler.Handle)

		api.Post("/newsletter", h.NewsletterHandler.Handle)
		api.Post("/contact", h.ContactHandler.Handle)
	}

	admin := router.Group("/__", r.middlewareTransport.AdminAuthMiddleware.Middleware())
	{
		admin.Get("/version", h.VersionHandler.Handle)
		admin.Get("/security/events", h.SecurityEventsHandler.Handle)
		admin.Get("/security/metrics", h.SecurityMetricsHandler.Handle)
		admin.Get("/ratelimit/status", h.RateLimitStatusHandler.Handle)
		admin.Post("/ratelimit/policies/:endpoint", h.RateLimitPolicyHandler.Handle)
	}

	if r.staticDir != "" {
		router.Static("/", r.staticDir, fiber.Static{Compress: true})
	}

	router.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	})
	return nil
}
