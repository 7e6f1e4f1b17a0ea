package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/devopsinterview/storefront/pkg/app/checkout"
	"github.com/devopsinterview/storefront/pkg/app/notification"
	appRatelimit "github.com/devopsinterview/storefront/pkg/app/ratelimit"
	appSecurity "github.com/devopsinterview/storefront/pkg/app/security"
	"github.com/devopsinterview/storefront/pkg/config"
	"github.com/devopsinterview/storefront/pkg/domain/mail"
	mailMocks "github.com/devopsinterview/storefront/pkg/domain/mail/mocks"
	"github.com/devopsinterview/storefront/pkg/domain/payment"
	paymentMocks "github.com/devopsinterview/storefront/pkg/domain/payment/mocks"
	domainSecurity "github.com/devopsinterview/storefront/pkg/domain/security"
	"github.com/devopsinterview/storefront/pkg/infra/cache"
	infraRatelimit "github.com/devopsinterview/storefront/pkg/infra/ratelimit"
	"github.com/devopsinterview/storefront/pkg/infra/repository"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	ebookID = "3f1c6a52-8a4e-4f0e-9b7b-0c2f4d2f9a11"
	host    = "shop.example.com"
)

type harness struct {
	app     *fiber.App
	gateway *paymentMocks.Gateway
	sender  *mailMocks.Sender
	journal appSecurity.Journal
	limiter appRatelimit.Limiter
	orders  *repository.MemoryOrderRepository
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger, _ := test.NewNullLogger()

	catalog, err := repository.NewCatalogRepository([]config.CatalogEbook{{
		ID:       ebookID,
		Slug:     "kubernetes-interview",
		Title:    "Kubernetes Interview Guide",
		Price:    29,
		PriceID:  "price_k8s",
		Formats:  []string{"PDF"},
		FileURL:  "https://files.example.com/k8s.{format}",
		Currency: "usd",
	}})
	require.NoError(t, err)

	h := &harness{
		gateway: paymentMocks.NewGateway(t),
		sender:  mailMocks.NewSender(t),
		journal: appSecurity.NewJournal(logger),
		orders:  repository.NewMemoryOrderRepository(),
	}
	h.limiter = appRatelimit.NewLimiter(logger, infraRatelimit.NewMemoryStore(logger), h.journal, nil)

	notifier := notification.NewNotifier(logger, h.sender, "https://"+host, config.EmailConfig{
		From: "noreply@example.com", SupportInbox: "support@example.com", DownloadValid: 72 * time.Hour,
	})
	svc := checkout.NewService(logger, catalog, h.orders, h.gateway, notifier, cache.NewMemoryDeduplicator(time.Hour), checkout.Opts{
		AppURL: "https://" + host,
	})

	h.app = fiber.New()
	h.app.Get("/api/ebooks", NewListEbooksHandler(logger, catalog).Handle)
	h.app.Get("/api/ebooks/:slug", NewGetEbookHandler(logger, catalog).Handle)
	h.app.Post("/api/checkout", NewCheckoutHandler(logger, svc, 1024).Handle)
	h.app.Post("/api/stripe-webhook", NewStripeWebhookHandler(logger, svc, h.journal).Handle)
	h.app.Get("/api/download", NewDownloadHandler(logger, svc).Handle)
	h.app.Post("/api/newsletter", NewNewsletterHandler(logger, notifier, 1024).Handle)
	h.app.Post("/api/contact", NewContactHandler(logger, notifier, 1024).Handle)
	h.app.Get("/__/security/events", NewSecurityEventsHandler(logger, h.journal).Handle)
	h.app.Get("/__/security/metrics", NewSecurityMetricsHandler(logger, h.journal).Handle)
	h.app.Get("/__/ratelimit/status", NewRateLimitStatusHandler(logger, h.limiter).Handle)
	h.app.Post("/__/ratelimit/policies/:endpoint", NewRateLimitPolicyHandler(logger, h.limiter).Handle)
	return h
}

func (h *harness) do(t *testing.T, req *http.Request) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := map[string]any{}
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(raw, &body))
	}
	return resp, body
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Host = host
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set(fiber.HeaderOrigin, "https://"+host)
	return req
}

func TestEbookHandlers(t *testing.T) {
	h := newHarness(t)

	resp, body := h.do(t, httptest.NewRequest(http.MethodGet, "/api/ebooks", nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	books := body["ebooks"].([]any)
	require.Len(t, books, 1)
	book := books[0].(map[string]any)
	assert.Equal(t, "kubernetes-interview", book["slug"])
	assert.NotContains(t, book, "PriceID")

	resp, _ = h.do(t, httptest.NewRequest(http.MethodGet, "/api/ebooks/kubernetes-interview", nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body = h.do(t, httptest.NewRequest(http.MethodGet, "/api/ebooks/missing", nil))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "ebook not found", body["error"])
}

func TestCheckoutHandler(t *testing.T) {
	t.Run("creates a session", func(t *testing.T) {
		h := newHarness(t)
		h.gateway.EXPECT().CreateCheckoutSession(mock.Anything, mock.Anything).
			Return(&payment.Session{ID: "cs_test_1", URL: "https://checkout.stripe.com/c/cs_test_1"}, nil)

		resp, body := h.do(t, jsonRequest(http.MethodPost, "/api/checkout", `{"ebookId":"`+ebookID+`"}`))
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "cs_test_1", body["sessionId"])
		assert.Equal(t, "https://checkout.stripe.com/c/cs_test_1", body["url"])
	})

	t.Run("rejects an invalid ebook id", func(t *testing.T) {
		h := newHarness(t)
		resp, body := h.do(t, jsonRequest(http.MethodPost, "/api/checkout", `{"ebookId":"nope"}`))
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Validation Error", body["error"])
		assert.Equal(t, "ebookId", body["field"])
		assert.Equal(t, "true", resp.Header.Get("X-Validation-Error"))
	})

	t.Run("rejects cross-site requests", func(t *testing.T) {
		h := newHarness(t)
		req := jsonRequest(http.MethodPost, "/api/checkout", `{"ebookId":"`+ebookID+`"}`)
		req.Header.Set(fiber.HeaderOrigin, "https://evil.example.net")
		resp, body := h.do(t, req)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "CSRF_PROTECTION", body["code"])
	})

	t.Run("unknown ebook", func(t *testing.T) {
		h := newHarness(t)
		resp, _ := h.do(t, jsonRequest(http.MethodPost, "/api/checkout", `{"ebookId":"`+uuid.NewString()+`"}`))
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("payment provider failure", func(t *testing.T) {
		h := newHarness(t)
		h.gateway.EXPECT().CreateCheckoutSession(mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))
		resp, body := h.do(t, jsonRequest(http.MethodPost, "/api/checkout", `{"ebookId":"`+ebookID+`"}`))
		assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
		assert.Equal(t, "Failed to create checkout session", body["error"])
	})
}

func webhookRequest(signature string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/stripe-webhook", strings.NewReader(`{"id":"evt_1"}`))
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}
	req.Header.Set("X-Forwarded-For", "203.0.113.10")
	return req
}

func TestStripeWebhookAndDownload(t *testing.T) {
	h := newHarness(t)
	h.gateway.EXPECT().CreateCheckoutSession(mock.Anything, mock.Anything).
		Return(&payment.Session{ID: "cs_test_1", URL: "https://checkout.stripe.com/c/cs_test_1"}, nil)
	_, started := h.do(t, jsonRequest(http.MethodPost, "/api/checkout", `{"ebookId":"`+ebookID+`","customerEmail":"buyer@example.com"}`))
	orderID := started["orderId"].(string)

	downloadPath := "/api/download?ebookId=" + ebookID + "&orderId=" + orderID + "&format=PDF"
	resp, _ := h.do(t, httptest.NewRequest(http.MethodGet, downloadPath, nil))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	h.gateway.EXPECT().ParseWebhook([]byte(`{"id":"evt_1"}`), "t=1,v1=good").Return(&payment.Event{
		ID:   "evt_1",
		Type: payment.EventCheckoutSessionCompleted,
		Session: &payment.CompletedSession{
			ID: "cs_test_1", CustomerEmail: "buyer@example.com", PaymentStatus: "paid", AmountTotal: 2900, Currency: "usd",
		},
	}, nil)
	h.sender.EXPECT().Send(mock.Anything, mock.MatchedBy(func(m mail.Message) bool {
		return m.To[0] == "buyer@example.com"
	})).Return(nil)

	resp, body := h.do(t, webhookRequest("t=1,v1=good"))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["received"])
	assert.Equal(t, "fulfilled", body["outcome"])

	resp, _ = h.do(t, httptest.NewRequest(http.MethodGet, downloadPath, nil))
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "https://files.example.com/k8s.pdf", resp.Header.Get(fiber.HeaderLocation))

	resp, body = h.do(t, httptest.NewRequest(http.MethodGet, "/api/download?ebookId="+ebookID+"&orderId="+orderID+"&format=ZIP", nil))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "format", body["field"])
}

func TestStripeWebhookRejectsBadSignatures(t *testing.T) {
	h := newHarness(t)

	resp, _ := h.do(t, webhookRequest(""))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	h.gateway.EXPECT().ParseWebhook(mock.Anything, "forged").
		Return(nil, errors.Join(payment.ErrInvalidSignature, errors.New("no valid signature")))
	resp, body := h.do(t, webhookRequest("forged"))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid signature", body["error"])

	failures := h.journal.ByType(domainSecurity.EventAuthFailure, 10)
	require.Len(t, failures, 2)
	assert.Equal(t, "203.0.113.10", failures[1].IP)
	assert.Equal(t, "invalid webhook signature", failures[1].Details["reason"])
}

func TestNewsletterAndContact(t *testing.T) {
	h := newHarness(t)
	h.sender.EXPECT().Send(mock.Anything, mock.Anything).Return(nil).Twice()

	resp, body := h.do(t, jsonRequest(http.MethodPost, "/api/newsletter", `{"email":"Reader@Example.com"}`))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	resp, _ = h.do(t, jsonRequest(http.MethodPost, "/api/contact", `{
		"name":"Ada Lovelace","email":"ada@example.com","subject":"Team licenses","message":"Do you sell team licenses?"
	}`))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body = h.do(t, jsonRequest(http.MethodPost, "/api/contact", `{
		"name":"Ada","email":"ada@example.com","subject":"Hello there","message":"<script>alert(1)</script>"
	}`))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "message", body["field"])
}

func TestAdminHandlers(t *testing.T) {
	h := newHarness(t)
	h.journal.LogRateLimit("198.51.100.1", "/api/checkout")
	h.journal.LogAuthFailure("198.51.100.2", "curl/8", nil)

	resp, body := h.do(t, httptest.NewRequest(http.MethodGet, "/__/security/events?type=auth_failure&limit=5", nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, body["count"])

	resp, _ = h.do(t, httptest.NewRequest(http.MethodGet, "/__/security/events?limit=abc", nil))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, body = h.do(t, httptest.NewRequest(http.MethodGet, "/__/security/metrics?hours=1", nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 2, body["totalEvents"])

	resp, body = h.do(t, jsonRequest(http.MethodPost, "/__/ratelimit/policies/newsletter", `{"windowSeconds":60,"maxRequests":1}`))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, body["maxRequests"])
	assert.Equal(t, time.Minute, h.limiter.Policy("newsletter").Window)

	h.limiter.Check(context.Background(), appRatelimit.Request{Path: "/api/newsletter", ForwardedFor: "192.0.2.1"}, "newsletter")
	resp, body = h.do(t, httptest.NewRequest(http.MethodGet, "/__/ratelimit/status?ip=192.0.2.1&endpoint=newsletter", nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 0, body["remaining"])
	assert.Equal(t, true, body["allowed"])
}
