package dependency_container

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/devopsinterview/storefront/pkg/app/checkout"
	"github.com/devopsinterview/storefront/pkg/app/notification"
	appRatelimit "github.com/devopsinterview/storefront/pkg/app/ratelimit"
	appSecurity "github.com/devopsinterview/storefront/pkg/app/security"
	"github.com/devopsinterview/storefront/pkg/config"
	"github.com/devopsinterview/storefront/pkg/domain/ebook"
	"github.com/devopsinterview/storefront/pkg/domain/mail"
	"github.com/devopsinterview/storefront/pkg/domain/order"
	"github.com/devopsinterview/storefront/pkg/domain/payment"
	"github.com/devopsinterview/storefront/pkg/domain/ratelimit"
	handlers "github.com/devopsinterview/storefront/pkg/handlers/http"
	"github.com/devopsinterview/storefront/pkg/infra/cache"
	"github.com/devopsinterview/storefront/pkg/infra/database"
	"github.com/devopsinterview/storefront/pkg/infra/httpx"
	"github.com/devopsinterview/storefront/pkg/infra/jwt"
	"github.com/devopsinterview/storefront/pkg/infra/mailer"
	infraPayment "github.com/devopsinterview/storefront/pkg/infra/payment"
	"github.com/devopsinterview/storefront/pkg/infra/prometheus"
	infraRatelimit "github.com/devopsinterview/storefront/pkg/infra/ratelimit"
	"github.com/devopsinterview/storefront/pkg/infra/repository"
	"github.com/devopsinterview/storefront/pkg/middleware"
	"github.com/devopsinterview/storefront/pkg/server/router"
	"github.com/devopsinterview/storefront/pkg/version"
	"github.com/sirupsen/logrus"
)

const webhookDedupePrefix = "stripe:webhook"

type Container struct {
	Cache               cache.Client
	DB                  *database.DB
	Journal             appSecurity.Journal
	Limiter             appRatelimit.Limiter
	Catalog             ebook.Catalog
	OrderRepository     order.Repository
	PaymentGateway      payment.Gateway
	MailSender          mail.Sender
	Notifier            notification.Notifier
	CheckoutService     checkout.Service
	JWTManager          jwt.Manager
	MiddlewareTransport *middleware.Transport
	HandlerTransport    *handlers.HandlerTransport
	Routers             []router.ServerRouter

	logger       *logrus.Logger
	cfg          *config.Config
	memoryStore  *infraRatelimit.MemoryStore
	memoryDedupe *cache.MemoryDeduplicator
}

type ContainerDI struct {
	Cfg    *config.Config
	Logger *logrus.Logger
}

func NewContainer(di ContainerDI) (*Container, error) {
	cfg := di.Cfg
	logger := di.Logger
	c := &Container{logger: logger, cfg: cfg}

	// Journal first: every other component reports into it.
	journalOpts := []appSecurity.Option{}
	if cfg.Metrics.Enabled {
		journalOpts = append(journalOpts, appSecurity.WithForwarders(prometheus.SecurityEventForwarder{}))
	}
	c.Journal = appSecurity.NewJournal(logger, journalOpts...)

	if cfg.Redis.Enabled {
		cacheInstance, err := cache.NewClient(cache.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TLS:      cfg.Redis.TLS,
		}, logger)
		if err != nil {
			logger.WithError(err).Warn("redis unavailable, falling back to in-memory rate limiting")
		} else {
			c.Cache = cacheInstance
		}
	}

	var store ratelimit.Store
	if c.Cache != nil {
		store = infraRatelimit.NewRedisStore(c.Cache.RedisClient())
		logger.Info("using redis rate limit store")
	} else {
		c.memoryStore = infraRatelimit.NewMemoryStore(logger)
		store = c.memoryStore
		logger.Info("using in-memory rate limit store")
	}

	limiterOpts := &appRatelimit.Opts{}
	if cfg.Metrics.Enabled {
		limiterOpts.Observer = func(endpoint string, decision appRatelimit.Decision) {
			prometheus.ObserveRateLimit(endpoint, string(decision))
		}
	}
	c.Limiter = appRatelimit.NewLimiter(logger, store, c.Journal, limiterOpts)
	applyPolicyOverrides(c.Limiter, cfg.RateLimit.Policies, logger)

	catalog, err := repository.NewCatalogRepository(cfg.Catalog.Ebooks)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	c.Catalog = catalog

	if cfg.Database.Enabled {
		db, err := database.NewDB(logger, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		c.DB = db
		c.OrderRepository = repository.NewOrderRepository(db.DB)
	} else {
		logger.Warn("database disabled, orders are kept in memory")
		c.OrderRepository = repository.NewMemoryOrderRepository()
	}

	httpClient := httpx.NewFastHTTPClient(
		httpx.WithTimeout(15*time.Second),
		httpx.WithUserAgent(version.AppName+"/"+version.Version),
	)
	c.PaymentGateway = infraPayment.NewStripeGateway(infraPayment.Config{
		SecretKey:     cfg.Stripe.SecretKey,
		WebhookSecret: cfg.Stripe.WebhookSecret,
		HTTPClient:    httpClient.StdClient(),
	}, logger)
	c.MailSender = mailer.NewResendSender(mailer.Config{
		APIKey:  cfg.Email.ResendAPIKey,
		BaseURL: cfg.Email.BaseURL,
	}, httpClient, logger)
	c.Notifier = notification.NewNotifier(logger, c.MailSender, cfg.Server.AppURL, cfg.Email)

	var dedupe cache.Deduplicator
	if c.Cache != nil {
		dedupe = cache.NewRedisDeduplicator(c.Cache, webhookDedupePrefix, cfg.Security.WebhookDedupeTTL)
	} else {
		c.memoryDedupe = cache.NewMemoryDeduplicator(cfg.Security.WebhookDedupeTTL)
		dedupe = c.memoryDedupe
	}
	c.CheckoutService = checkout.NewService(logger, c.Catalog, c.OrderRepository, c.PaymentGateway, c.Notifier, dedupe, checkout.Opts{
		AppURL:        cfg.Server.AppURL,
		DownloadValid: cfg.Email.DownloadValid,
	})

	c.JWTManager = jwt.NewJwtManager(cfg.Admin)

	c.MiddlewareTransport = &middleware.Transport{
		PanicRecoverMiddleware:    middleware.NewPanicRecoverMiddleware(logger, c.Journal),
		RequestIDMiddleware:       middleware.NewRequestIDMiddleware(),
		SecurityHeadersMiddleware: middleware.NewSecurityHeadersMiddleware(logger, cfg.Server.IsProduction()),
		RateLimitMiddleware:       middleware.NewRateLimitMiddleware(logger, c.Limiter, cfg.Security.RateLimitedPaths),
		AccessLogMiddleware:       middleware.NewAccessLogMiddleware(c.Journal, cfg.Security.ProtectedPaths),
		MetricsMiddleware:         middleware.NewMetricsMiddleware(cfg.Metrics.Enabled),
		AdminAuthMiddleware:       middleware.NewAdminAuthMiddleware(logger, c.JWTManager, c.Journal),
	}

	var dbPinger, redisPinger handlers.Pinger
	if c.DB != nil {
		dbPinger = c.DB
	}
	if c.Cache != nil {
		redisPinger = c.Cache
	}

	maxBody := cfg.Security.MaxBodySize
	c.HandlerTransport = &handlers.HandlerTransport{
		PingHandler:            handlers.NewPingHandler(),
		VersionHandler:         handlers.NewVersionHandler(),
		HealthHandler:          handlers.NewHealthHandler(logger, dbPinger, redisPinger, cfg.Server.Environment),
		ListEbooksHandler:      handlers.NewListEbooksHandler(logger, c.Catalog),
		GetEbookHandler:        handlers.NewGetEbookHandler(logger, c.Catalog),
		CheckoutHandler:        handlers.NewCheckoutHandler(logger, c.CheckoutService, maxBody),
		StripeWebhookHandler:   handlers.NewStripeWebhookHandler(logger, c.CheckoutService, c.Journal),
		DownloadHandler:        handlers.NewDownloadHandler(logger, c.CheckoutService),
		NewsletterHandler:      handlers.NewNewsletterHandler(logger, c.Notifier, maxBody),
		ContactHandler:         handlers.NewContactHandler(logger, c.Notifier, maxBody),
		SecurityEventsHandler:  handlers.NewSecurityEventsHandler(logger, c.Journal),
		SecurityMetricsHandler: handlers.NewSecurityMetricsHandler(logger, c.Journal),
		RateLimitStatusHandler: handlers.NewRateLimitStatusHandler(logger, c.Limiter),
		RateLimitPolicyHandler: handlers.NewRateLimitPolicyHandler(logger, c.Limiter),
	}

	c.Routers = []router.ServerRouter{
		router.NewStorefrontRouter(c.MiddlewareTransport, c.HandlerTransport, cfg.Server.StaticDir),
	}

	return c, nil
}

// applyPolicyOverrides merges configured policies over the built-in table.
func applyPolicyOverrides(limiter appRatelimit.Limiter, overrides map[string]config.PolicyConfig, logger *logrus.Logger) {
	for endpoint, o := range overrides {
		policy := limiter.Policy(endpoint)
		if o.Window > 0 {
			policy.Window = o.Window
		}
		if o.MaxRequests > 0 {
			policy.MaxRequests = o.MaxRequests
		}
		if o.Message != "" {
			policy.Message = o.Message
		}
		limiter.Configure(endpoint, policy)
		logger.WithFields(logrus.Fields{
			"endpoint":     endpoint,
			"window":       policy.Window.String(),
			"max_requests": policy.MaxRequests,
		}).Info("rate limit policy configured")
	}
}

// Start launches background maintenance bound to ctx.
func (c *Container) Start(ctx context.Context) {
	if c.memoryStore != nil {
		go c.memoryStore.Run(ctx, c.cfg.RateLimit.CleanupInterval)
	}
	if c.memoryDedupe != nil {
		go c.memoryDedupe.Run(ctx, c.cfg.RateLimit.CleanupInterval)
	}
}

func (c *Container) Close() error {
	var errs []error
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}
