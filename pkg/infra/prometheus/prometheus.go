package prometheus

import (
	"sync"

	domainSecurity "github.com/devopsinterview/storefront/pkg/domain/security"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWithPrefix("storefront_", registry)

var (
	// Latency buckets in milliseconds
	latencyBuckets = []float64{
		5, 10, 25,
		50, 100, 250,
		500, 1000, 2500,
		5000, 10000,
	}

	RequestTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "requests_total",
			Help: "Total number of requests processed",
		},
		[]string{"method", "route", "status"},
	)

	RequestLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "latency_ms",
			Help:    "Request latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"method", "route"},
	)

	RateLimitDecisions = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "ratelimit_decisions_total",
			Help: "Rate limit decisions by endpoint and outcome",
		},
		[]string{"endpoint", "decision"},
	)

	SecurityEvents = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "security_events_total",
			Help: "Security events recorded by type and severity",
		},
		[]string{"type", "severity"},
	)

	ValidationFailures = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "validation_failures_total",
			Help: "Rejected requests by validation error code",
		},
		[]string{"route", "code"},
	)

	UpstreamErrors = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_errors_total",
			Help: "Failed calls to payment and email providers",
		},
		[]string{"upstream", "operation"},
	)
)

var initOnce sync.Once

// Initialize registers process collectors and makes the private registry the
// default one so promhttp.Handler serves it.
func Initialize() {
	initOnce.Do(func() {
		registry.MustRegister(
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewGoCollector(),
		)
		prometheus.DefaultRegisterer = registry
		prometheus.DefaultGatherer = registry
	})
}

func Gatherer() prometheus.Gatherer {
	return registry
}

// SecurityEventForwarder counts journaled security events.
type SecurityEventForwarder struct{}

func (SecurityEventForwarder) Forward(event domainSecurity.Event) error {
	SecurityEvents.WithLabelValues(string(event.Type), string(event.Severity)).Inc()
	return nil
}

// ObserveRateLimit matches the limiter's observer signature.
func ObserveRateLimit(endpoint, decision string) {
	RateLimitDecisions.WithLabelValues(endpoint, decision).Inc()
}
