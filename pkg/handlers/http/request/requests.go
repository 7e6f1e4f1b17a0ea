package request

import "github.com/google/uuid"

type CheckoutRequest struct {
	EbookID       uuid.UUID         `json:"ebookId"`
	SuccessURL    string            `json:"successUrl"`
	CancelURL     string            `json:"cancelUrl"`
	CustomerEmail string            `json:"customerEmail"`
	Metadata      map[string]string `json:"metadata"`
}

type WebhookHeaders struct {
	Signature string `json:"stripe-signature"`
}

type DownloadQuery struct {
	EbookID uuid.UUID `json:"ebookId"`
	OrderID uuid.UUID `json:"orderId"`
	Format  string    `json:"format"`
}

type NewsletterRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type SecurityEventsQuery struct {
	Limit    int    `json:"limit"`
	Type     string `json:"type"`
	Severity string `json:"severity"`
}

type SecurityMetricsQuery struct {
	Hours int `json:"hours"`
}

type RateLimitStatusQuery struct {
	IP       string `json:"ip"`
	Endpoint string `json:"endpoint"`
}

type RateLimitPolicyRequest struct {
	WindowSeconds int    `json:"windowSeconds"`
	MaxRequests   int    `json:"maxRequests"`
	Message       string `json:"message"`
}
