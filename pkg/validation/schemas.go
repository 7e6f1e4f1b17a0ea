package validation

import "regexp"

var fileSizePattern = regexp.MustCompile(`(?i)^\d+\.?\d*\s?(KB|MB|GB)$`)

var ebookFormats = []string{"PDF", "EPUB", "MOBI"}

var (
	CheckoutSchema = Object(
		Field("ebookId", UUIDField()),
		Field("successUrl", SecureURLField().Optional().AllowEmpty()),
		Field("cancelUrl", SecureURLField().Optional().AllowEmpty()),
		Field("customerEmail", EmailField().Optional()),
		Field("metadata", StringMap(SanitizedField(1000)).DefaultEmpty()),
	).Strict()

	StripeWebhookSchema = Object(
		Field("id", String().Min(1, "Event ID required")),
		Field("type", String().Min(1, "Event type required")),
		Field("data", Object(
			Field("object", Any()),
		)),
		Field("created", Number().Positive("Invalid timestamp")),
		Field("livemode", Bool()),
		Field("api_version", String().Optional()),
	).Strict()

	DownloadSchema = Object(
		Field("ebookId", UUIDField()),
		Field("orderId", UUIDField()),
		Field("format", String().OneOf(ebookFormats, "Format must be PDF, EPUB, or MOBI")),
	).Strict()

	ContactFormSchema = Object(
		Field("name", SanitizedField(100).Min(2, "Name must be at least 2 characters")),
		Field("email", EmailField()),
		Field("subject", SanitizedField(100).Min(5, "Subject must be at least 5 characters")),
		Field("message", SanitizedField(2000).Min(10, "Message must be at least 10 characters")),
	).Strict()

	NewsletterSchema = Object(
		Field("email", EmailField()),
		Field("name", SanitizedField(100).Optional()),
	).Strict()

	AdminEbookSchema = Object(
		Field("title", SanitizedField(200).Min(1, "Title required")),
		Field("description", SanitizedField(2000).Min(10, "Description must be at least 10 characters")),
		Field("price", Number().Positive("Price must be positive").Max(999.99, "Price too high")),
		Field("originalPrice", Number().Positive("Price must be positive").Optional()),
		Field("tags", Array(SanitizedField(50)).Max(10, "Too many tags").Optional()),
		Field("format", Array(String().OneOf(ebookFormats, "Format must be PDF, EPUB, or MOBI")).Min(1, "At least one format required")),
		Field("pageCount", Number().Int("").Positive("").Max(9999, "").Optional()),
		Field("fileSize", String().Matches(fileSizePattern, "Invalid file size format").Optional()),
	).Strict()

	WebhookHeadersSchema = Object(
		Field("stripe-signature", String().Min(1, "Missing signature")),
	)

	SecurityEventsQuerySchema = Object(
		Field("limit", Number().Coerce().Int("").Positive("").Max(1000, "").Optional()),
		Field("type", String().OneOf([]string{
			"rate_limit", "auth_failure", "suspicious_activity", "api_access", "error",
		}, "").Optional()),
		Field("severity", String().OneOf([]string{"low", "medium", "high", "critical"}, "").Optional()),
	).Strict()

	SecurityMetricsQuerySchema = Object(
		Field("hours", Number().Coerce().Int("").Positive("").Max(24*30, "").Optional()),
	).Strict()

	RateLimitStatusQuerySchema = Object(
		Field("ip", String().Min(1, "")),
		Field("endpoint", String().Max(64, "").Optional()),
	).Strict()

	RateLimitPolicySchema = Object(
		Field("windowSeconds", Number().Int("").Positive("").Max(24*60*60, "")),
		Field("maxRequests", Number().Int("").Positive("").Max(1_000_000, "")),
		Field("message", SanitizedField(200).Optional()),
	).Strict()
)
