package common

type contextKey string

// Keys stored in fiber locals by the edge middlewares.
const (
	RequestIDContextKey contextKey = "request_id"
	CSPNonceContextKey  contextKey = "csp_nonce"
	LatencyContextKey   contextKey = "__execution_time"
	RateLimitContextKey contextKey = "rate_limit_result"
)
