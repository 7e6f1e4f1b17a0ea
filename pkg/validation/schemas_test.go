package validation_test

import (
	"encoding/json"
	"testing"

	"github.com/devopsinterview/storefront/pkg/validation"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validEbookID = "3f2b8c1e-4d5a-4e6f-8a7b-9c0d1e2f3a4b"

type checkoutBody struct {
	EbookID       uuid.UUID         `json:"ebookId"`
	SuccessURL    string            `json:"successUrl,omitempty"`
	CancelURL     string            `json:"cancelUrl,omitempty"`
	CustomerEmail string            `json:"customerEmail,omitempty"`
	Metadata      map[string]string `json:"metadata"`
}

func parseCheckout(t *testing.T, body string) (checkoutBody, *validation.Error) {
	t.Helper()
	out, err := validation.ParseBody[checkoutBody]([]byte(body), validation.CheckoutSchema)
	if err == nil {
		return out, nil
	}
	vErr, ok := validation.AsError(err)
	require.True(t, ok, "unexpected error type %T", err)
	return out, vErr
}

func TestCheckoutSchema_Valid(t *testing.T) {
	out, vErr := parseCheckout(t, `{
		"ebookId": "`+validEbookID+`",
		"successUrl": "https://devopsinterview.cloud/success",
		"cancelUrl": "",
		"customerEmail": "Reader@Example.COM",
		"metadata": {"campaign": "  spring  "}
	}`)
	require.Nil(t, vErr)
	assert.Equal(t, uuid.MustParse(validEbookID), out.EbookID)
	assert.Equal(t, "", out.CancelURL)
	assert.Equal(t, "spring", out.Metadata["campaign"])
}

func TestCheckoutSchema_EmailIsNormalized(t *testing.T) {
	out, vErr := parseCheckout(t, `{"ebookId":"`+validEbookID+`","customerEmail":"Reader@Example.COM"}`)
	require.Nil(t, vErr)
	assert.Equal(t, "reader@example.com", out.CustomerEmail)
	assert.NotNil(t, out.Metadata)
	assert.Empty(t, out.Metadata)
}

func TestCheckoutSchema_ValidationIsIdempotent(t *testing.T) {
	first, vErr := parseCheckout(t, `{
		"ebookId": "`+validEbookID+`",
		"successUrl": "https://devopsinterview.cloud/success",
		"customerEmail": "Reader@Example.COM",
		"metadata": {"campaign": "  spring  ", "source": "newsletter"}
	}`)
	require.Nil(t, vErr)

	normalized, err := json.Marshal(first)
	require.NoError(t, err)
	second, vErr := parseCheckout(t, string(normalized))
	require.Nil(t, vErr)
	assert.Equal(t, first, second)
	assert.Equal(t, "reader@example.com", second.CustomerEmail)
}

type contactBody struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func TestContactFormSchema_ValidationIsIdempotent(t *testing.T) {
	first, err := validation.ParseBody[contactBody]([]byte(`{
		"name": "  Ada Lovelace ",
		"email": "ADA@Example.org",
		"subject": "  Bulk licensing  ",
		"message": "  Do you offer team licenses for the handbook?  "
	}`), validation.ContactFormSchema)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", first.Name)
	assert.Equal(t, "ada@example.org", first.Email)

	normalized, err := json.Marshal(first)
	require.NoError(t, err)
	second, err := validation.ParseBody[contactBody](normalized, validation.ContactFormSchema)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCheckoutSchema_Rejections(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		message string
		field   string
		code    string
	}{
		{
			name:    "invalid uuid",
			body:    `{"ebookId":"not-a-uuid"}`,
			message: "Validation failed for ebookId: Invalid ID format. Must be a valid UUID.",
			field:   "ebookId",
			code:    validation.CodeInvalidString,
		},
		{
			name:    "missing ebook id",
			body:    `{}`,
			message: "Validation failed for ebookId: Required",
			field:   "ebookId",
			code:    validation.CodeInvalidType,
		},
		{
			name:    "plain http redirect",
			body:    `{"ebookId":"` + validEbookID + `","successUrl":"http://evil.example/x"}`,
			message: "Validation failed for successUrl: URL must use HTTPS protocol",
			field:   "successUrl",
			code:    validation.CodeCustom,
		},
		{
			name:    "malformed url",
			body:    `{"ebookId":"` + validEbookID + `","cancelUrl":"not a url"}`,
			message: "Validation failed for cancelUrl: Invalid URL format.",
			field:   "cancelUrl",
			code:    validation.CodeInvalidString,
		},
		{
			name:    "unknown key",
			body:    `{"ebookId":"` + validEbookID + `","price":0}`,
			message: "Validation failed for price: Unrecognized key(s) in object: 'price'",
			field:   "price",
			code:    validation.CodeUnrecognizedKeys,
		},
		{
			name:    "script in metadata",
			body:    `{"ebookId":"` + validEbookID + `","metadata":{"note":"<script>alert(1)</script>"}}`,
			message: "Validation failed for metadata.note: Invalid characters detected",
			field:   "metadata.note",
			code:    validation.CodeCustom,
		},
		{
			name:    "bad email",
			body:    `{"ebookId":"` + validEbookID + `","customerEmail":"nobody"}`,
			message: "Validation failed for customerEmail: Invalid email format",
			field:   "customerEmail",
			code:    validation.CodeInvalidString,
		},
		{
			name:    "wrong type",
			body:    `{"ebookId":42}`,
			message: "Validation failed for ebookId: Expected string, received number",
			field:   "ebookId",
			code:    validation.CodeInvalidType,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, vErr := parseCheckout(t, tc.body)
			require.NotNil(t, vErr)
			assert.Equal(t, tc.message, vErr.Message)
			assert.Equal(t, tc.field, vErr.Field)
			assert.Equal(t, tc.code, vErr.Code)
		})
	}
}

func TestCheckoutSchema_LocalhostRedirectAllowed(t *testing.T) {
	_, vErr := parseCheckout(t, `{"ebookId":"`+validEbookID+`","successUrl":"http://localhost:3000/success"}`)
	assert.Nil(t, vErr)
}

func TestParseBody_InvalidJSON(t *testing.T) {
	_, err := validation.ParseBody[map[string]any]([]byte(`{"ebookId":`), validation.CheckoutSchema)
	vErr, ok := validation.AsError(err)
	require.True(t, ok)
	assert.Equal(t, "Invalid JSON format", vErr.Message)
	assert.Empty(t, vErr.Field)

	_, err = validation.ParseBody[map[string]any](nil, validation.CheckoutSchema)
	vErr, ok = validation.AsError(err)
	require.True(t, ok)
	assert.Equal(t, "Invalid JSON format", vErr.Message)
}

func TestStripeWebhookSchema(t *testing.T) {
	type event struct {
		ID       string         `json:"id"`
		Type     string         `json:"type"`
		Data     map[string]any `json:"data"`
		Created  int64          `json:"created"`
		Livemode bool           `json:"livemode"`
	}

	out, err := validation.ParseBody[event]([]byte(`{
		"id":"evt_1","type":"checkout.session.completed",
		"data":{"object":{"id":"cs_1"}},"created":1740730536,"livemode":false
	}`), validation.StripeWebhookSchema)
	require.NoError(t, err)
	assert.Equal(t, "evt_1", out.ID)
	assert.Equal(t, int64(1740730536), out.Created)

	_, err = validation.ParseBody[event]([]byte(`{
		"id":"","type":"x","data":{},"created":1,"livemode":true
	}`), validation.StripeWebhookSchema)
	vErr, _ := validation.AsError(err)
	require.NotNil(t, vErr)
	assert.Equal(t, "Validation failed for id: Event ID required", vErr.Message)

	_, err = validation.ParseBody[event]([]byte(`{
		"id":"evt","type":"x","data":{},"created":-5,"livemode":true
	}`), validation.StripeWebhookSchema)
	vErr, _ = validation.AsError(err)
	require.NotNil(t, vErr)
	assert.Equal(t, "Validation failed for created: Invalid timestamp", vErr.Message)
}

func TestDownloadSchema_Format(t *testing.T) {
	body := `{"ebookId":"` + validEbookID + `","orderId":"` + validEbookID + `","format":"DOCX"}`
	_, err := validation.ParseBody[map[string]any]([]byte(body), validation.DownloadSchema)
	vErr, _ := validation.AsError(err)
	require.NotNil(t, vErr)
	assert.Equal(t, "Validation failed for format: Format must be PDF, EPUB, or MOBI", vErr.Message)
	assert.Equal(t, validation.CodeInvalidEnumValue, vErr.Code)
}

func TestContactFormSchema(t *testing.T) {
	_, err := validation.ParseBody[map[string]any]([]byte(`{
		"name":"A","email":"a@b.co","subject":"Hello there","message":"A long enough message"
	}`), validation.ContactFormSchema)
	vErr, _ := validation.AsError(err)
	require.NotNil(t, vErr)
	assert.Equal(t, "Validation failed for name: Name must be at least 2 characters", vErr.Message)

	_, err = validation.ParseBody[map[string]any]([]byte(`{
		"name":"Ada","email":"a@b.co","subject":"Hello there","message":"<a onclick = 'x'>hi</a> there"
	}`), validation.ContactFormSchema)
	vErr, _ = validation.AsError(err)
	require.NotNil(t, vErr)
	assert.Equal(t, "Invalid characters detected", vErr.Message[len(vErr.Message)-len("Invalid characters detected"):])
}

func TestAdminEbookSchema(t *testing.T) {
	valid := `{
		"title":"Kubernetes Interview Guide",
		"description":"Two hundred questions with answers",
		"price":29.99,
		"tags":["k8s","devops"],
		"format":["PDF","EPUB"],
		"pageCount":320,
		"fileSize":"4.2 MB"
	}`
	_, err := validation.ParseBody[map[string]any]([]byte(valid), validation.AdminEbookSchema)
	require.NoError(t, err)

	cases := map[string]string{
		`"price":1000`:           "Validation failed for price: Price too high",
		`"price":0`:              "Validation failed for price: Price must be positive",
		`"format":[]`:            "Validation failed for format: At least one format required",
		`"fileSize":"big"`:       "Validation failed for fileSize: Invalid file size format",
		`"pageCount":12.5`:       "Validation failed for pageCount: Expected integer, received float",
		`"format":["PDF","TXT"]`: "Validation failed for format.1: Format must be PDF, EPUB, or MOBI",
	}
	for override, want := range cases {
		t.Run(override, func(t *testing.T) {
			body := `{"title":"T","description":"long enough text","price":10,"format":["PDF"],` + override + `}`
			_, err := validation.ParseBody[map[string]any]([]byte(body), validation.AdminEbookSchema)
			vErr, _ := validation.AsError(err)
			require.NotNil(t, vErr)
			assert.Equal(t, want, vErr.Message)
		})
	}
}

func TestRules(t *testing.T) {
	assert.True(t, validation.IsUUID(validEbookID))
	assert.False(t, validation.IsUUID("{"+validEbookID+"}"))
	assert.False(t, validation.IsUUID("urn:uuid:"+validEbookID))

	assert.True(t, validation.IsEmail("first.last+tag@sub.example.io"))
	assert.False(t, validation.IsEmail(".lead@example.com"))
	assert.False(t, validation.IsEmail("double..dot@example.com"))
	assert.False(t, validation.IsEmail("no-tld@example"))

	assert.True(t, validation.IsSecureRedirect("https://devopsinterview.cloud"))
	assert.True(t, validation.IsSecureRedirect("http://localhost:3000/x"))
	assert.False(t, validation.IsSecureRedirect("http://localhost.evil.com/x"))
	assert.False(t, validation.IsSecureRedirect("javascript:alert(1)"))

	assert.True(t, validation.ContainsDangerousContent("JaVaScRiPt:alert(1)"))
	assert.True(t, validation.ContainsDangerousContent("<img onerror=x>"))
	assert.False(t, validation.ContainsDangerousContent("the onset of winter"))
}
