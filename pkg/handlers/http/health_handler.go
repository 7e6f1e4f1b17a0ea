package http

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/devopsinterview/storefront/pkg/common"
	"github.com/devopsinterview/storefront/pkg/version"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"

	dependencyTimeout = 2 * time.Second
)

// Pinger is a dependency whose reachability is reported by the health check.
type Pinger interface {
	Ping(ctx context.Context) error
}

type DependencyCheck struct {
	Status       string `json:"status"`
	ResponseTime int64  `json:"responseTime,omitempty"`
	Error        string `json:"error,omitempty"`
}

type MemoryCheck struct {
	Status     string  `json:"status"`
	Usage      uint64  `json:"usage"`
	Limit      uint64  `json:"limit"`
	Percentage float64 `json:"percentage"`
}

type HealthResponse struct {
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
	Uptime    float64 `json:"uptime"`
	Checks    struct {
		Database DependencyCheck `json:"database"`
		Redis    DependencyCheck `json:"redis"`
		Memory   MemoryCheck     `json:"memory"`
	} `json:"checks"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type healthHandler struct {
	logger      *logrus.Logger
	database    Pinger
	redis       Pinger
	environment string
	started     time.Time
	memStats    func() (used, total uint64)
}

// NewHealthHandler reports readiness. A nil database or redis is reported as disabled.
func NewHealthHandler(logger *logrus.Logger, database, redis Pinger, environment string) Handler {
	return &healthHandler{
		logger:      logger,
		database:    database,
		redis:       redis,
		environment: environment,
		started:     time.Now(),
		memStats:    heapStats,
	}
}

func heapStats() (uint64, uint64) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.HeapAlloc, m.HeapSys
}

func (h *healthHandler) Handle(c *fiber.Ctx) error {
	start := time.Now()

	var resp HealthResponse
	g, ctx := errgroup.WithContext(c.Context())
	g.Go(func() error {
		resp.Checks.Database = h.checkDependency(ctx, "database", h.database)
		return nil
	})
	g.Go(func() error {
		resp.Checks.Redis = h.checkDependency(ctx, "redis", h.redis)
		return nil
	})
	g.Go(func() error {
		resp.Checks.Memory = h.checkMemory()
		return nil
	})
	_ = g.Wait()

	resp.Status = StatusHealthy
	if resp.Checks.Redis.Status == "down" {
		resp.Status = StatusDegraded
	}
	switch resp.Checks.Memory.Status {
	case "warning", "critical":
		resp.Status = StatusDegraded
	}
	if resp.Checks.Database.Status == "down" {
		resp.Status = StatusUnhealthy
	}

	resp.Timestamp = time.Now().UTC().Format(time.RFC3339Nano)
	resp.Uptime = time.Since(h.started).Seconds()
	resp.Version = version.Version
	resp.Environment = h.environment

	status := fiber.StatusOK
	if resp.Status == StatusUnhealthy {
		status = fiber.StatusServiceUnavailable
	}

	c.Set(fiber.HeaderCacheControl, "no-cache, no-store, must-revalidate")
	c.Set(common.HeaderResponseTime, fmt.Sprintf("%dms", time.Since(start).Milliseconds()))
	return c.Status(status).JSON(resp)
}

func (h *healthHandler) checkDependency(ctx context.Context, name string, p Pinger) DependencyCheck {
	if p == nil {
		return DependencyCheck{Status: "disabled"}
	}
	ctx, cancel := context.WithTimeout(ctx, dependencyTimeout)
	defer cancel()

	start := time.Now()
	if err := p.Ping(ctx); err != nil {
		h.logger.WithError(err).WithField("dependency", name).Warn("health check failed")
		return DependencyCheck{Status: "down", Error: err.Error()}
	}
	return DependencyCheck{Status: "up", ResponseTime: time.Since(start).Milliseconds()}
}

func (h *healthHandler) checkMemory() MemoryCheck {
	used, total := h.memStats()
	check := MemoryCheck{Status: "ok", Usage: used, Limit: total}
	if total == 0 {
		return check
	}
	pct := float64(used) / float64(total) * 100
	check.Percentage = math.Round(pct*100) / 100
	switch {
	case pct > 90:
		check.Status = "critical"
	case pct > 75:
		check.Status = "warning"
	}
	return check
}
