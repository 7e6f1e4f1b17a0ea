package dependency_container

import (
	"context"
	"testing"
	"time"

	"github.com/devopsinterview/storefront/pkg/config"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:        3000,
			Environment: config.EnvironmentDevelopment,
			AppURL:      "http://localhost:3000",
		},
		RateLimit: config.RateLimitConfig{
			CleanupInterval: time.Minute,
			Policies: map[string]config.PolicyConfig{
				"checkout": {MaxRequests: 2},
			},
		},
		Security: config.SecurityConfig{
			RateLimitedPaths: map[string]string{"/api/checkout": "checkout"},
			ProtectedPaths:   []string{"/api/"},
			MaxBodySize:      1024,
			WebhookDedupeTTL: time.Hour,
		},
		Email: config.EmailConfig{
			BaseURL:       "https://api.resend.com",
			From:          "noreply@example.com",
			SupportInbox:  "support@example.com",
			DownloadValid: 72 * time.Hour,
		},
		Catalog: config.CatalogConfig{
			Ebooks: []config.CatalogEbook{{
				ID:      "3f6c2a1e-8b7d-4c6e-9a51-2d0f4e7b9c13",
				Slug:    "devops-interview-handbook",
				Title:   "DevOps Interview Handbook",
				Price:   29.99,
				Formats: []string{"pdf"},
				FileURL: "https://files.example.com/handbook.{format}",
			}},
		},
		Admin: config.AdminConfig{SecretKey: "admin-secret"},
	}
}

func TestNewContainer_MemoryBackends(t *testing.T) {
	logger, _ := test.NewNullLogger()

	c, err := NewContainer(ContainerDI{Cfg: testConfig(), Logger: logger})
	require.NoError(t, err)

	assert.Nil(t, c.Cache)
	assert.Nil(t, c.DB)
	assert.NotNil(t, c.memoryStore)
	assert.NotNil(t, c.memoryDedupe)
	assert.Len(t, c.Routers, 1)
	assert.NotNil(t, c.MiddlewareTransport.AdminAuthMiddleware)
	assert.Len(t, c.MiddlewareTransport.Chain(), 6)

	policy := c.Limiter.Policy("checkout")
	assert.Equal(t, 2, policy.MaxRequests)
	assert.Equal(t, 15*time.Minute, policy.Window)

	ctx, cancel := context.WithCancel(context.Background())
	c.Start(ctx)
	cancel()
	assert.NoError(t, c.Close())
}

func TestNewContainer_InvalidCatalog(t *testing.T) {
	logger, _ := test.NewNullLogger()
	cfg := testConfig()
	cfg.Catalog.Ebooks[0].ID = "not-a-uuid"

	_, err := NewContainer(ContainerDI{Cfg: cfg, Logger: logger})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load catalog")
}

func TestApplyPolicyOverrides_KeepsUnsetFields(t *testing.T) {
	logger, hook := test.NewNullLogger()
	c, err := NewContainer(ContainerDI{Cfg: testConfig(), Logger: logger})
	require.NoError(t, err)
	hook.Reset()

	before := c.Limiter.Policy("contact")
	applyPolicyOverrides(c.Limiter, map[string]config.PolicyConfig{
		"contact": {Message: "slow down"},
	}, logger)

	after := c.Limiter.Policy("contact")
	assert.Equal(t, "slow down", after.Message)
	assert.Equal(t, before.Window, after.Window)
	assert.Equal(t, before.MaxRequests, after.MaxRequests)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
}
