package validation_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/devopsinterview/storefront/pkg/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type errorBody struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Field     string `json:"field"`
	Code      string `json:"code"`
	Timestamp string `json:"timestamp"`
}

func secureApp() *fiber.App {
	app := fiber.New()
	app.Post("/api/checkout", func(c *fiber.Ctx) error {
		body, err := validation.SecureValidateBody[checkoutBody](c, validation.CheckoutSchema, validation.SecureOptions{
			MaxBodySize: 256,
		})
		if err != nil {
			vErr, _ := validation.AsError(err)
			return validation.RespondError(c, vErr)
		}
		return validation.RespondSuccess(c, fiber.StatusOK, fiber.Map{"ebookId": body.EbookID.String()})
	})
	return app
}

func decodeError(t *testing.T, resp *http.Response) errorBody {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out errorBody
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestSecureValidateBody_Success(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "http://shop.example/api/checkout",
		strings.NewReader(`{"ebookId":"`+validEbookID+`"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "https://shop.example")

	resp, err := secureApp().Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out struct {
		Success bool              `json:"success"`
		Data    map[string]string `json:"data"`
	}
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.True(t, out.Success)
	assert.Equal(t, validEbookID, out.Data["ebookId"])
}

func TestSecureValidateBody_ContentType(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "http://shop.example/api/checkout",
		strings.NewReader(`{"ebookId":"`+validEbookID+`"}`))
	req.Header.Set("Content-Type", "text/plain")

	resp, err := secureApp().Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "true", resp.Header.Get("X-Validation-Error"))

	body := decodeError(t, resp)
	assert.Equal(t, "Validation Error", body.Error)
	assert.Equal(t, "Content-Type must be application/json", body.Message)
	assert.NotEmpty(t, body.Timestamp)
}

func TestSecureValidateBody_CrossOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "http://shop.example/api/checkout",
		strings.NewReader(`{"ebookId":"`+validEbookID+`"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "https://evil.example")

	resp, err := secureApp().Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	body := decodeError(t, resp)
	assert.Equal(t, "Invalid origin", body.Message)
	assert.Equal(t, "origin", body.Field)
	assert.Equal(t, validation.CodeCSRFProtection, body.Code)
}

func TestSecureValidateBody_RefererRescuesOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "http://shop.example/api/checkout",
		strings.NewReader(`{"ebookId":"`+validEbookID+`"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "https://checkout.partner.example")
	req.Header.Set("Referer", "https://shop.example/books/k8s")

	resp, err := secureApp().Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestSecureValidateBody_TooLarge(t *testing.T) {
	payload := `{"ebookId":"` + validEbookID + `","metadata":{"note":"` + strings.Repeat("a", 400) + `"}}`
	req := httptest.NewRequest(http.MethodPost, "http://shop.example/api/checkout", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := secureApp().Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Request body too large. Maximum 256 bytes allowed.", decodeError(t, resp).Message)
}

func TestSecureValidateBody_SchemaFailure(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "http://shop.example/api/checkout",
		strings.NewReader(`{"ebookId":"nope"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := secureApp().Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body := decodeError(t, resp)
	assert.Equal(t, "Validation failed for ebookId: Invalid ID format. Must be a valid UUID.", body.Message)
	assert.Equal(t, "ebookId", body.Field)
	assert.Equal(t, validation.CodeInvalidString, body.Code)
}

func TestValidateQueryParams(t *testing.T) {
	type query struct {
		Limit    int    `json:"limit"`
		Severity string `json:"severity"`
	}
	app := fiber.New()
	app.Get("/events", func(c *fiber.Ctx) error {
		q, err := validation.ValidateQueryParams[query](c, validation.SecurityEventsQuerySchema)
		if err != nil {
			vErr, _ := validation.AsError(err)
			return validation.RespondError(c, vErr)
		}
		return c.JSON(q)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/events?limit=5&severity=high", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"limit":5,"severity":"high"}`, string(raw))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/events?limit=abc", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid query parameter limit: Expected number, received string", decodeError(t, resp).Message)
}

func TestValidateHeaders(t *testing.T) {
	type headers struct {
		Signature string `json:"stripe-signature"`
	}
	app := fiber.New()
	app.Post("/hook", func(c *fiber.Ctx) error {
		h, err := validation.ValidateHeaders[headers](c, validation.WebhookHeadersSchema)
		if err != nil {
			vErr, _ := validation.AsError(err)
			return validation.RespondError(c, vErr)
		}
		return c.SendString(h.Signature)
	})

	req := httptest.NewRequest(http.MethodPost, "/hook", nil)
	req.Header.Set("Stripe-Signature", "t=1,v1=abc")
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "t=1,v1=abc", string(raw))

	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/hook", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid header stripe-signature: Required", decodeError(t, resp).Message)
}
