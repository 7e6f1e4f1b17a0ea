package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	EnvironmentDevelopment = "development"
	EnvironmentProduction  = "production"
)

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Security  SecurityConfig  `mapstructure:"security"`
	Stripe    StripeConfig    `mapstructure:"stripe"`
	Email     EmailConfig     `mapstructure:"email"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Admin     AdminConfig     `mapstructure:"admin"`
}

type ServerConfig struct {
	Port        int    `mapstructure:"port"`
	MetricsPort int    `mapstructure:"metrics_port"`
	Environment string `mapstructure:"environment"`
	AppURL      string `mapstructure:"app_url"`
	StaticDir   string `mapstructure:"static_dir"`
	LogFile     string `mapstructure:"log_file"`
}

func (s ServerConfig) IsProduction() bool {
	return s.Environment == EnvironmentProduction
}

type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TLS      bool   `mapstructure:"tls"`
}

// PolicyConfig overrides one entry of the built-in rate limit policy table.
type PolicyConfig struct {
	Window      time.Duration `mapstructure:"window"`
	MaxRequests int           `mapstructure:"max_requests"`
	Message     string        `mapstructure:"message"`
}

type RateLimitConfig struct {
	CleanupInterval time.Duration           `mapstructure:"cleanup_interval"`
	Policies        map[string]PolicyConfig `mapstructure:"policies"`
}

type SecurityConfig struct {
	// RateLimitedPaths maps a path prefix to the rate limit endpoint name applied to it.
	RateLimitedPaths map[string]string `mapstructure:"rate_limited_paths"`
	ProtectedPaths   []string          `mapstructure:"protected_paths"`
	MaxBodySize      int64             `mapstructure:"max_body_size"`
	WebhookDedupeTTL time.Duration     `mapstructure:"webhook_dedupe_ttl"`
}

type StripeConfig struct {
	SecretKey      string `mapstructure:"secret_key"`
	WebhookSecret  string `mapstructure:"webhook_secret"`
	PublishableKey string `mapstructure:"publishable_key"`
}

type EmailConfig struct {
	ResendAPIKey  string        `mapstructure:"resend_api_key"`
	BaseURL       string        `mapstructure:"base_url"`
	From          string        `mapstructure:"from"`
	SupportInbox  string        `mapstructure:"support_inbox"`
	DownloadValid time.Duration `mapstructure:"download_valid"`
}

type CatalogEbook struct {
	ID            string   `mapstructure:"id"`
	Slug          string   `mapstructure:"slug"`
	Title         string   `mapstructure:"title"`
	Description   string   `mapstructure:"description"`
	Price         float64  `mapstructure:"price"`
	OriginalPrice float64  `mapstructure:"original_price"`
	Currency      string   `mapstructure:"currency"`
	PriceID       string   `mapstructure:"price_id"`
	Formats       []string `mapstructure:"formats"`
	FileURL       string   `mapstructure:"file_url"`
	CoverURL      string   `mapstructure:"cover_url"`
	PageCount     int      `mapstructure:"page_count"`
	Tags          []string `mapstructure:"tags"`
}

type CatalogConfig struct {
	Ebooks []CatalogEbook `mapstructure:"ebooks"`
}

type AdminConfig struct {
	SecretKey string `mapstructure:"secret_key"`
}

var globalConfig Config

func Load(configPath string) error {
	if err := loadConfigFile(configPath, "config", &globalConfig); err != nil {
		return fmt.Errorf("could not load main config file: %w", err)
	}
	setDefaultValues(&globalConfig)
	return nil
}

func loadConfigFile(configPath, fileName string, out interface{}) error {
	viper.SetConfigName(fileName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configPath)
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	bindLegacyEnv()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file %s.yaml: %w", fileName, err)
		}
	}

	if err := viper.Unmarshal(out); err != nil {
		return fmt.Errorf("failed to unmarshal %s config: %w", fileName, err)
	}

	return nil
}

// bindLegacyEnv maps the storefront's historical variable names onto config keys.
func bindLegacyEnv() {
	bindings := map[string]string{
		"server.environment":     "NODE_ENV",
		"server.app_url":         "NEXT_PUBLIC_APP_URL",
		"stripe.secret_key":      "STRIPE_SECRET_KEY",
		"stripe.webhook_secret":  "STRIPE_WEBHOOK_SECRET",
		"stripe.publishable_key": "NEXT_PUBLIC_STRIPE_PUBLISHABLE_KEY",
		"email.resend_api_key":   "RESEND_API_KEY",
		"email.from":             "EMAIL_FROM",
		"admin.secret_key":       "ADMIN_SECRET_KEY",
	}
	for key, env := range bindings {
		_ = viper.BindEnv(key, strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env)
	}
}

func setDefaultValues(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 3000
	}
	if cfg.Server.MetricsPort == 0 {
		cfg.Server.MetricsPort = 9090
	}
	if cfg.Server.Environment == "" {
		cfg.Server.Environment = EnvironmentDevelopment
	}
	if cfg.Server.AppURL == "" {
		cfg.Server.AppURL = "http://localhost:3000"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.RateLimit.CleanupInterval == 0 {
		cfg.RateLimit.CleanupInterval = 5 * time.Minute
	}
	if len(cfg.Security.RateLimitedPaths) == 0 {
		cfg.Security.RateLimitedPaths = map[string]string{
			"/api/checkout":       "checkout",
			"/api/stripe-webhook": "stripe-webhook",
		}
	}
	if len(cfg.Security.ProtectedPaths) == 0 {
		cfg.Security.ProtectedPaths = []string{"/api/"}
	}
	if cfg.Security.MaxBodySize == 0 {
		cfg.Security.MaxBodySize = 1024 * 1024
	}
	if cfg.Security.WebhookDedupeTTL == 0 {
		cfg.Security.WebhookDedupeTTL = 24 * time.Hour
	}
	if cfg.Email.BaseURL == "" {
		cfg.Email.BaseURL = "https://api.resend.com"
	}
	if cfg.Email.From == "" {
		cfg.Email.From = "DevOpsInterview.Cloud <noreply@devopsinterview.cloud>"
	}
	if cfg.Email.SupportInbox == "" {
		cfg.Email.SupportInbox = "support@devopsinterview.cloud"
	}
	if cfg.Email.DownloadValid == 0 {
		cfg.Email.DownloadValid = 72 * time.Hour
	}
}

func GetConfig() *Config {
	return &globalConfig
}
