package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"github.com/valyala/fastjson"
)

const (
	DefaultContentType = fiber.MIMEApplicationJSON
	DefaultMaxBodySize = 1024 * 1024

	bodyPrefix   = "Validation failed for"
	queryPrefix  = "Invalid query parameter"
	headerPrefix = "Invalid header"
)

var parserPool fastjson.ParserPool

// SecureOptions configures SecureValidateBody. Zero values select defaults.
type SecureOptions struct {
	ContentType string
	MaxBodySize int64
	SkipOrigin  bool
}

// ParseBody validates a raw JSON document and decodes the normalized result into T.
func ParseBody[T any](body []byte, schema *ObjectSchema) (T, error) {
	var zero T
	p := parserPool.Get()
	defer parserPool.Put(p)

	v, err := p.ParseBytes(body)
	if err != nil {
		return zero, &Error{Message: "Invalid JSON format"}
	}
	return apply[T](fromJSON(v), schema, bodyPrefix)
}

func ValidateBody[T any](c *fiber.Ctx, schema *ObjectSchema) (T, error) {
	return ParseBody[T](c.Body(), schema)
}

func ValidateQueryParams[T any](c *fiber.Ctx, schema *ObjectSchema) (T, error) {
	params := make(map[string]any)
	c.Context().QueryArgs().VisitAll(func(key, value []byte) {
		name := string(key)
		if _, seen := params[name]; !seen {
			params[name] = string(value)
		}
	})
	return apply[T](params, schema, queryPrefix)
}

func ValidateHeaders[T any](c *fiber.Ctx, schema *ObjectSchema) (T, error) {
	headers := make(map[string]any)
	for name, values := range c.GetReqHeaders() {
		if len(values) == 0 {
			continue
		}
		headers[strings.ToLower(name)] = values[0]
	}
	return apply[T](headers, schema, headerPrefix)
}

// SecureValidateBody runs transport checks (content type, origin, declared
// size) before validating the body. The size check trusts Content-Length.
func SecureValidateBody[T any](c *fiber.Ctx, schema *ObjectSchema, opts SecureOptions) (T, error) {
	var zero T
	if opts.ContentType == "" {
		opts.ContentType = DefaultContentType
	}
	if opts.MaxBodySize <= 0 {
		opts.MaxBodySize = DefaultMaxBodySize
	}

	if ct := c.Get(fiber.HeaderContentType); ct != opts.ContentType {
		return zero, &Error{Message: fmt.Sprintf("Content-Type must be %s", opts.ContentType)}
	}

	if !opts.SkipOrigin {
		if err := checkOrigin(c.Get(fiber.HeaderOrigin), c.Get(fiber.HeaderReferer), c.Get(fiber.HeaderHost)); err != nil {
			return zero, err
		}
	}

	if length := int64(c.Request().Header.ContentLength()); length > opts.MaxBodySize {
		return zero, &Error{Message: fmt.Sprintf("Request body too large. Maximum %d bytes allowed.", opts.MaxBodySize)}
	}

	return ValidateBody[T](c, schema)
}

// checkOrigin rejects a request whose Origin does not mention Host, unless
// its Referer does.
func checkOrigin(origin, referer, host string) error {
	if origin == "" || host == "" || strings.Contains(origin, host) {
		return nil
	}
	if referer != "" && strings.Contains(referer, host) {
		return nil
	}
	return &Error{Message: "Invalid origin", Field: "origin", Code: CodeCSRFProtection}
}

func apply[T any](input any, schema *ObjectSchema, prefix string) (T, error) {
	var zero T
	parsed, iss := schema.parse(input, nil)
	if iss != nil {
		return zero, iss.toError(prefix)
	}
	out, err := decode[T](parsed)
	if err != nil {
		return zero, &Error{Message: fmt.Sprintf("%s request: %s", prefix, err.Error()), Code: CodeInvalidType}
	}
	return out, nil
}

func decode[T any](data any) (T, error) {
	var out T
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "json",
		Result:     &out,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(stringToUUIDHook),
	})
	if err != nil {
		return out, err
	}
	if err := decoder.Decode(data); err != nil {
		return out, err
	}
	return out, nil
}

func stringToUUIDHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(uuid.UUID{}) {
		return data, nil
	}
	return uuid.Parse(data.(string))
}

func fromJSON(v *fastjson.Value) any {
	switch v.Type() {
	case fastjson.TypeObject:
		obj, _ := v.Object()
		out := make(map[string]any, obj.Len())
		obj.Visit(func(key []byte, val *fastjson.Value) {
			out[string(key)] = fromJSON(val)
		})
		return out
	case fastjson.TypeArray:
		items, _ := v.Array()
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = fromJSON(item)
		}
		return out
	case fastjson.TypeString:
		return string(v.GetStringBytes())
	case fastjson.TypeNumber:
		return v.GetFloat64()
	case fastjson.TypeTrue:
		return true
	case fastjson.TypeFalse:
		return false
	default:
		return nil
	}
}
