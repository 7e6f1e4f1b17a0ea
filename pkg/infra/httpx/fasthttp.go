package httpx

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
)

const (
	DefaultTimeout             = 15 * time.Second
	DefaultMaxConnsPerHost     = 64
	DefaultMaxIdleConnDuration = 30 * time.Second
	DefaultMaxResponseBodySize = 4 * 1024 * 1024
)

// Client sends net/http requests over fasthttp.
type Client interface {
	Do(req *http.Request) (*http.Response, error)
}

type Options struct {
	Timeout             time.Duration
	MaxConnsPerHost     int
	MaxIdleConnDuration time.Duration
	MaxResponseBodySize int
	UserAgent           string
}

type Option func(*Options)

func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.Timeout = timeout
	}
}

func WithUserAgent(userAgent string) Option {
	return func(o *Options) {
		o.UserAgent = userAgent
	}
}

func WithMaxConnsPerHost(n int) Option {
	return func(o *Options) {
		o.MaxConnsPerHost = n
	}
}

// FastHTTPClient adapts a fasthttp.Client to the net/http request and
// response types. It also implements http.RoundTripper so SDKs that only take
// an *http.Client can ride on it.
type FastHTTPClient struct {
	client    *fasthttp.Client
	timeout   time.Duration
	userAgent string
}

func NewFastHTTPClient(opts ...Option) *FastHTTPClient {
	options := &Options{
		Timeout:             DefaultTimeout,
		MaxConnsPerHost:     DefaultMaxConnsPerHost,
		MaxIdleConnDuration: DefaultMaxIdleConnDuration,
		MaxResponseBodySize: DefaultMaxResponseBodySize,
	}
	for _, opt := range opts {
		opt(options)
	}

	return &FastHTTPClient{
		client: &fasthttp.Client{
			ReadTimeout:              options.Timeout,
			WriteTimeout:             options.Timeout,
			MaxConnsPerHost:          options.MaxConnsPerHost,
			MaxIdleConnDuration:      options.MaxIdleConnDuration,
			MaxResponseBodySize:      options.MaxResponseBodySize,
			NoDefaultUserAgentHeader: true,
			TLSConfig:                &tls.Config{MinVersion: tls.VersionTLS12},
		},
		timeout:   options.Timeout,
		userAgent: options.UserAgent,
	}
}

// StdClient wraps the adapter in an *http.Client.
func (c *FastHTTPClient) StdClient() *http.Client {
	return &http.Client{Transport: c, Timeout: c.timeout}
}

func (c *FastHTTPClient) RoundTrip(req *http.Request) (*http.Response, error) {
	return c.Do(req)
}

func (c *FastHTTPClient) Do(req *http.Request) (*http.Response, error) {
	fastReq := fasthttp.AcquireRequest()
	fastResp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(fastReq)
	defer fasthttp.ReleaseResponse(fastResp)

	fastReq.SetRequestURI(req.URL.String())
	fastReq.Header.SetMethod(req.Method)
	if req.Host != "" {
		fastReq.Header.SetHost(req.Host)
	}
	for key, values := range req.Header {
		for _, value := range values {
			fastReq.Header.Add(key, value)
		}
	}
	if c.userAgent != "" && req.Header.Get("User-Agent") == "" {
		fastReq.Header.SetUserAgent(c.userAgent)
	}
	if req.Body != nil {
		body, err := io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
		fastReq.SetBodyRaw(body)
	}

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := req.Context().Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := req.Context().Err(); err != nil {
		return nil, err
	}
	if err := c.client.DoDeadline(fastReq, fastResp, deadline); err != nil {
		return nil, err
	}

	body := append([]byte(nil), fastResp.Body()...)
	headers := make(http.Header)
	fastResp.Header.VisitAll(func(key, value []byte) {
		headers.Add(string(key), string(value))
	})

	status := fastResp.StatusCode()
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", status, http.StatusText(status)),
		StatusCode:    status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        headers,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}, nil
}
