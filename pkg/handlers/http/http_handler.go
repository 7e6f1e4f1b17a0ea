package http

import "github.com/gofiber/fiber/v2"

type Handler interface {
	Handle(ctx *fiber.Ctx) error
}

type HandlerTransport struct {
	// Liveness
	PingHandler    Handler
	VersionHandler Handler
	HealthHandler  Handler

	// Catalog
	ListEbooksHandler Handler
	GetEbookHandler   Handler

	// Commerce
	CheckoutHandler      Handler
	StripeWebhookHandler Handler
	DownloadHandler      Handler

	// Contact
	NewsletterHandler Handler
	ContactHandler    Handler

	// Admin
	SecurityEventsHandler  Handler
	SecurityMetricsHandler Handler
	RateLimitStatusHandler Handler
	RateLimitPolicyHandler Handler
}
