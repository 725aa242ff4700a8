/*
Package config provides configuration management for the RSS Feed frontend.

Settings come from built-in defaults, an optional YAML file and the environment, in
that order of precedence from lowest to highest. A .env file in the working directory
is loaded into the environment first.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Nexora-Open-Source/rss-feed-frontend/backend"
	"github.com/Nexora-Open-Source/rss-feed-frontend/cache"
	"github.com/Nexora-Open-Source/rss-feed-frontend/container"
	"github.com/Nexora-Open-Source/rss-feed-frontend/middleware"
	"github.com/Nexora-Open-Source/rss-feed-frontend/monitoring"
	"github.com/Nexora-Open-Source/rss-feed-frontend/utils"
	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is looked up in the XDG config directories when no file is given
const DefaultConfigFile = "rss-frontend/config.yaml"

// Config holds all application configuration
type Config struct {
	BackendURL     string        `yaml:"backend_url"`
	BackendTimeout time.Duration `yaml:"backend_timeout"`
	LogLevel       string        `yaml:"log_level"`
	ServerPort     string        `yaml:"server_port"`
	// TimeZone is the default viewer zone, an IANA name or "Local"
	TimeZone string `yaml:"time_zone"`
	// Session configuration
	SessionTTL    time.Duration `yaml:"session_ttl"`
	SessionCookie string        `yaml:"session_cookie"`
	SecureCookies bool          `yaml:"secure_cookies"`
	// Rate limiting configuration
	RateLimitRequestsPerMinute float64       `yaml:"rate_limit_rpm"`
	RateLimitBurst             int           `yaml:"rate_limit_burst"`
	ClientCleanupInterval      time.Duration `yaml:"client_cleanup_interval"`
	// Monitoring
	AlertInterval  time.Duration `yaml:"alert_interval"`
	JaegerEndpoint string        `yaml:"jaeger_endpoint"`
	// Enhanced CORS configuration
	CORSConfig CORSConfig `yaml:"cors"`
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	// Environment-specific settings
	Environment string `yaml:"environment"`
	// Allowed origins based on environment
	DevelopmentOrigins []string `yaml:"development_origins"`
	StagingOrigins     []string `yaml:"staging_origins"`
	ProductionOrigins  []string `yaml:"production_origins"`
	// Additional CORS settings
	AllowedMethods   []string `yaml:"allowed_methods"`
	AllowedHeaders   []string `yaml:"allowed_headers"`
	ExposedHeaders   []string `yaml:"exposed_headers"`
	AllowCredentials bool     `yaml:"allow_credentials"`
	MaxAge           int      `yaml:"max_age"`
	// Dynamic origin validation
	AllowSubdomains bool     `yaml:"allow_subdomains"`
	AllowedDomains  []string `yaml:"allowed_domains"`
}

// Services holds all service dependencies
type Services struct {
	Container *container.Container
	Logger    *logrus.Logger
}

// AppConfig holds both configuration and services
type AppConfig struct {
	Config   *Config
	Services *Services
}

// defaults returns the built-in configuration
func defaults() *Config {
	return &Config{
		BackendTimeout: 10 * time.Second,
		LogLevel:       "info",
		ServerPort:     "3000",
		TimeZone:       "Local",
		SessionTTL:     30 * time.Minute,
		SessionCookie:  "rss_session",
		// Rate limiting defaults (120 requests per minute, burst of 20)
		RateLimitRequestsPerMinute: 120,
		RateLimitBurst:             20,
		ClientCleanupInterval:      1 * time.Minute,
		AlertInterval:              30 * time.Second,
		CORSConfig: CORSConfig{
			Environment: "development",
			DevelopmentOrigins: []string{
				"http://localhost:3000",
				"http://127.0.0.1:3000",
			},
			StagingOrigins: []string{
				"https://staging.yourdomain.com",
			},
			ProductionOrigins: []string{
				"https://yourdomain.com",
				"https://www.yourdomain.com",
			},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{
				"Content-Type", "Authorization", "X-Requested-With",
				"X-Request-ID", "Accept", "Origin", "Cache-Control",
			},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           86400, // 24 hours
			AllowedDomains:   []string{},
		},
	}
}

// NewConfig creates a configuration from the defaults and the environment
func NewConfig() *Config {
	config := defaults()
	config.applyEnv()
	return config
}

// LoadConfig loads .env, then the YAML file at path, then the environment. An empty
// path selects DefaultConfigFile in the XDG config directories when it exists.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	config := defaults()

	if path == "" {
		if found, err := xdg.SearchConfigFile(DefaultConfigFile); err == nil {
			path = found
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	config.applyEnv()
	return config, nil
}

// applyEnv overrides settings with the environment variables that are set
func (c *Config) applyEnv() {
	c.BackendURL = getEnv("BACKEND_URL", c.BackendURL)
	c.BackendTimeout = getEnvDuration("BACKEND_TIMEOUT", c.BackendTimeout)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.ServerPort = getEnv("SERVER_PORT", c.ServerPort)
	c.TimeZone = getEnv("TIME_ZONE", c.TimeZone)
	c.SessionTTL = getEnvDuration("SESSION_TTL", c.SessionTTL)
	c.SessionCookie = getEnv("SESSION_COOKIE", c.SessionCookie)
	c.SecureCookies = getEnvBool("SECURE_COOKIES", c.SecureCookies)
	c.RateLimitRequestsPerMinute = getEnvFloat("RATE_LIMIT_RPM", c.RateLimitRequestsPerMinute)
	c.RateLimitBurst = getEnvInt("RATE_LIMIT_BURST", c.RateLimitBurst)
	c.ClientCleanupInterval = getEnvDuration("CLIENT_CLEANUP_INTERVAL", c.ClientCleanupInterval)
	c.AlertInterval = getEnvDuration("ALERT_INTERVAL", c.AlertInterval)
	c.JaegerEndpoint = getEnv("JAEGER_ENDPOINT", c.JaegerEndpoint)

	cors := &c.CORSConfig
	cors.Environment = getEnv("ENVIRONMENT", cors.Environment)
	cors.DevelopmentOrigins = getEnvSlice("DEV_CORS_ORIGINS", cors.DevelopmentOrigins)
	cors.StagingOrigins = getEnvSlice("STAGING_CORS_ORIGINS", cors.StagingOrigins)
	cors.ProductionOrigins = getEnvSlice("PROD_CORS_ORIGINS", cors.ProductionOrigins)
	cors.AllowedMethods = getEnvSlice("CORS_ALLOWED_METHODS", cors.AllowedMethods)
	cors.AllowedHeaders = getEnvSlice("CORS_ALLOWED_HEADERS", cors.AllowedHeaders)
	cors.ExposedHeaders = getEnvSlice("CORS_EXPOSED_HEADERS", cors.ExposedHeaders)
	cors.AllowCredentials = getEnvBool("CORS_ALLOW_CREDENTIALS", cors.AllowCredentials)
	cors.MaxAge = getEnvInt("CORS_MAX_AGE", cors.MaxAge)
	cors.AllowSubdomains = getEnvBool("CORS_ALLOW_SUBDOMAINS", cors.AllowSubdomains)
	cors.AllowedDomains = getEnvSlice("CORS_ALLOWED_DOMAINS", cors.AllowedDomains)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.BackendURL == "" {
		return fmt.Errorf("BACKEND_URL environment variable is required")
	}
	parsed, err := url.Parse(c.BackendURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("BACKEND_URL %q must be an absolute http(s) URL", c.BackendURL)
	}
	if _, err := strconv.Atoi(c.ServerPort); err != nil {
		return fmt.Errorf("SERVER_PORT %q is not a port number", c.ServerPort)
	}
	if _, err := utils.LoadLocation(c.TimeZone); err != nil {
		return fmt.Errorf("TIME_ZONE: %v", err)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.BackendTimeout <= 0 {
		return fmt.Errorf("BACKEND_TIMEOUT must be positive")
	}
	return nil
}

// Location returns the default viewer zone
func (c *Config) Location() *time.Location {
	loc, err := utils.LoadLocation(c.TimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}

// NewServices creates and initializes all service dependencies using DI container
func NewServices(config *Config, version string) (*Services, error) {
	logger := middleware.Logger
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.InfoLevel)
	}

	backendClient, err := backend.NewClient(config.BackendURL, config.BackendTimeout, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create backend client: %v", err)
	}
	logger.WithField("backend_url", backendClient.BaseURL()).Info("Backend client initialized successfully")

	// Session state lives only in memory
	sessionCache := cache.NewInMemoryCache(config.SessionTTL, config.SessionTTL/2)
	sessions := cache.NewSessionManager(sessionCache, logger, config.SessionTTL, config.Location())
	logger.WithField("session_ttl", config.SessionTTL.String()).Info("Session manager initialized successfully")

	alertManager := monitoring.NewAlertManager(logger, config.AlertInterval)

	diContainer := container.NewContainer()
	if err := diContainer.InitializeServices(backendClient, sessionCache, sessions, alertManager, logger, version); err != nil {
		return nil, fmt.Errorf("failed to initialize dependency container: %v", err)
	}

	return &Services{
		Container: diContainer,
		Logger:    logger,
	}, nil
}

// NewAppConfig loads and validates the configuration and builds all dependencies
func NewAppConfig(path, version string) (*AppConfig, error) {
	config, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %v", err)
	}

	services, err := NewServices(config, version)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize services: %v", err)
	}

	return &AppConfig{
		Config:   config,
		Services: services,
	}, nil
}

// Close gracefully closes all service connections
func (s *Services) Close() error {
	if s.Container != nil {
		return s.Container.Close()
	}
	return nil
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvFloat gets an environment variable as float64 with a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvInt gets an environment variable as int with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvDuration gets an environment variable as time.Duration with a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvBool gets an environment variable as bool with a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvSlice gets an environment variable as a string slice with a default value
func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}
