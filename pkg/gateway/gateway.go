package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/lei/hikvision-gateway/internal/api"
	"github.com/lei/hikvision-gateway/internal/config"
	"github.com/lei/hikvision-gateway/internal/service"
	"github.com/lei/hikvision-gateway/pkg/isapi/client"
	"github.com/lei/hikvision-gateway/pkg/isapi/transport"
	"github.com/lei/hikvision-gateway/pkg/logger"
)

// Gateway represents a gateway instance that can be embedded in applications
type Gateway struct {
	config   *config.Config
	service  *service.Service
	registry *client.Registry
	router   http.Handler
	server   *http.Server
	logger   *logger.Logger
}

// Config holds the configuration for the Gateway
type Config struct {
	// Server configuration
	Server ServerConfig

	// Authentication configuration
	Auth AuthConfig

	// Device fleet configuration
	Hikvision HikvisionConfig

	// Logger configuration
	Logging LoggingConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string // empty allows every origin
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	// APIKeys is a list of API keys for authentication
	APIKeys []APIKey
}

// APIKey represents an API key for authentication
type APIKey struct {
	Name string
	Key  string
}

// HikvisionConfig holds the devices the gateway fronts
type HikvisionConfig struct {
	Default    string // device used when a request names none
	Format     string // json or xml
	AuthScheme string // digest or basic
	Devices    map[string]DeviceConfig
}

// DeviceConfig holds one device's connection settings
type DeviceConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	Protocol  string // http or https
	Timeout   time.Duration
	VerifyTLS bool
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string // debug, info, warn, error
	Format string // json or text
}

// New creates a new Gateway instance with the provided configuration.
// Unset settings take their defaults.
func New(cfg *Config) (*Gateway, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	internal := cfg.internal()
	internal.ApplyDefaults()
	if err := internal.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return newGateway(internal)
}

// NewFromConfigFile creates a Gateway from a YAML config file plus HIKVISION_*
// environment overrides. An empty path configures everything from the
// environment.
func NewFromConfigFile(path string) (*Gateway, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return newGateway(cfg)
}

// NewFromEnv creates a Gateway configured only from environment variables
func NewFromEnv() (*Gateway, error) {
	return NewFromConfigFile("")
}

func newGateway(cfg *config.Config) (*Gateway, error) {
	appLogger := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	tr := transport.NewHTTPTransport(transport.WithLogger(appLogger))
	registry, err := client.NewRegistry(tr, cfg.Hikvision.Authenticator(), cfg.Hikvision.Settings(), client.WithLogger(appLogger))
	if err != nil {
		return nil, fmt.Errorf("initialize device registry: %w", err)
	}
	appLogger.Info("initialized device registry",
		"devices", registry.Names(),
		"default", registry.DefaultName(),
		"auth_scheme", cfg.Hikvision.AuthScheme)

	// Initialize service layer
	svc := service.NewService(registry, appLogger)

	// Initialize API layer
	handlers := api.NewHandlers(svc)
	authMiddleware := api.NewAuthMiddleware(cfg.Auth.APIKeys)
	loggingMiddleware := api.NewLoggingMiddleware(appLogger)
	router := api.NewRouter(handlers, authMiddleware, loggingMiddleware, cfg.Server.CORSOrigins)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return &Gateway{
		config:   cfg,
		service:  svc,
		registry: registry,
		router:   router,
		server:   srv,
		logger:   appLogger,
	}, nil
}

// internal converts the public configuration into the loader's form
func (c *Config) internal() *config.Config {
	keys := make([]config.APIKey, len(c.Auth.APIKeys))
	for i, key := range c.Auth.APIKeys {
		keys[i] = config.APIKey{
			Name: key.Name,
			Key:  key.Key,
		}
	}

	devices := make(map[string]config.DeviceConfig, len(c.Hikvision.Devices))
	for name, dev := range c.Hikvision.Devices {
		devices[name] = config.DeviceConfig{
			Host:      dev.Host,
			Port:      dev.Port,
			Username:  dev.Username,
			Password:  dev.Password,
			Protocol:  dev.Protocol,
			Timeout:   dev.Timeout,
			VerifyTLS: dev.VerifyTLS,
		}
	}

	return &config.Config{
		Server: config.ServerConfig{
			Port:         c.Server.Port,
			ReadTimeout:  c.Server.ReadTimeout,
			WriteTimeout: c.Server.WriteTimeout,
			CORSOrigins:  c.Server.CORSOrigins,
		},
		Auth: config.AuthConfig{APIKeys: keys},
		Hikvision: config.HikvisionConfig{
			Default:    c.Hikvision.Default,
			Format:     c.Hikvision.Format,
			AuthScheme: c.Hikvision.AuthScheme,
			Devices:    devices,
		},
		Logging: config.LoggingConfig{
			Level:  c.Logging.Level,
			Format: c.Logging.Format,
		},
	}
}

// Start starts the HTTP server
// This is a blocking call that will run until the context is canceled or an error occurs
func (g *Gateway) Start(ctx context.Context) error {
	defer g.logger.Sync()

	serverErrors := make(chan error, 1)

	// Start server in goroutine
	go func() {
		g.logger.Info("starting http server", "port", g.config.Server.Port)
		serverErrors <- g.server.ListenAndServe()
	}()

	// Wait for context cancellation or server error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil

	case <-ctx.Done():
		g.logger.Info("shutdown signal received")

		// Graceful shutdown with 30s timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := g.server.Shutdown(shutdownCtx); err != nil {
			g.server.Close()
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}

		g.logger.Info("server stopped gracefully")
		return nil
	}
}

// Handler returns the http.Handler for the gateway
// Use this if you want to integrate the gateway into an existing HTTP server
func (g *Gateway) Handler() http.Handler {
	return g.router
}

// Service returns the underlying service layer
// Use this for direct programmatic access to gateway functionality
func (g *Gateway) Service() *service.Service {
	return g.service
}

// Device returns the request gateway for a configured device. Empty selects
// the default device.
func (g *Gateway) Device(name string) (*client.Gateway, error) {
	return g.registry.Get(name)
}
