// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Default listen ports, one per binary.
const (
	DefaultGatewayPort  = 3000
	DefaultUsersPort    = 3001
	DefaultTasksPort    = 3002
	DefaultCommentsPort = 3003
)

// Common holds settings shared by the gateway and every resource service.
type Common struct {
	// Application settings
	AppEnv string `env:"APP_ENV" envDefault:"development"`
	Port   int    `env:"PORT"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// CORS configuration
	// Comma-separated list of allowed origins; "*" allows any origin.
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`
}

// IsDevelopment returns true if running in development mode.
func (c *Common) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Common) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

func (c *Common) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.MaxRequestBodySize <= 0 {
		return errors.New("MAX_REQUEST_BODY_SIZE must be positive")
	}
	return nil
}

// GatewayConfig configures the API gateway.
// Every backend address is required; the gateway refuses to start without
// the full set.
type GatewayConfig struct {
	Common

	// Backend service base addresses
	UsersServiceURL    string `env:"USERS_SERVICE_URL,required"`
	TasksServiceURL    string `env:"TASKS_SERVICE_URL,required"`
	CommentsServiceURL string `env:"COMMENTS_SERVICE_URL,required"`

	// Outbound timeouts
	ProxyTimeout time.Duration `env:"PROXY_TIMEOUT" envDefault:"10s"`
	ResetTimeout time.Duration `env:"RESET_TIMEOUT" envDefault:"5s"`

	// Cache (Redis), only needed for rate limiting
	RedisURL string `env:"REDIS_URL"`

	// Rate limiting (per client IP)
	RateLimitEnabled bool `env:"RATE_LIMIT_ENABLED" envDefault:"false"`
	RateLimitRPS     int  `env:"RATE_LIMIT_RPS" envDefault:"50"`
	RateLimitBurst   int  `env:"RATE_LIMIT_BURST" envDefault:"100"`
}

// Backend names a resource service and its base address.
type Backend struct {
	Name string
	URL  string
}

// Backends returns the configured services in their fixed order:
// users, tasks, comments.
func (c *GatewayConfig) Backends() []Backend {
	return []Backend{
		{Name: "users", URL: c.UsersServiceURL},
		{Name: "tasks", URL: c.TasksServiceURL},
		{Name: "comments", URL: c.CommentsServiceURL},
	}
}

func (c *GatewayConfig) validate() error {
	if err := c.Common.validate(); err != nil {
		return err
	}

	for _, b := range c.Backends() {
		if err := validateServiceURL(b.URL); err != nil {
			return fmt.Errorf("invalid %s service URL: %w", b.Name, err)
		}
	}

	if c.ProxyTimeout <= 0 {
		return errors.New("PROXY_TIMEOUT must be positive")
	}
	if c.ResetTimeout <= 0 {
		return errors.New("RESET_TIMEOUT must be positive")
	}

	if c.RateLimitEnabled {
		if c.RedisURL == "" {
			return errors.New("REDIS_URL is required when RATE_LIMIT_ENABLED is true")
		}
		if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
			return errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
		}
	}

	return nil
}

func validateServiceURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("host is empty")
	}
	return nil
}

// ServiceConfig configures one resource service.
type ServiceConfig struct {
	Common
}

// LoadGateway parses environment variables and returns a GatewayConfig.
// Returns an error if required variables are missing or invalid.
func LoadGateway() (*GatewayConfig, error) {
	cfg := &GatewayConfig{}
	cfg.Port = DefaultGatewayPort

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadService parses environment variables for a resource service.
// defaultPort applies when PORT is unset.
func LoadService(defaultPort int) (*ServiceConfig, error) {
	cfg := &ServiceConfig{}
	cfg.Port = defaultPort

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
