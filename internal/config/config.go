package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/lei/hikvision-gateway/pkg/isapi/auth"
	"github.com/lei/hikvision-gateway/pkg/isapi/client"
)

// DefaultDevice names the device env overrides apply to when none is chosen
const DefaultDevice = "primary"

// Config represents the gateway configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Auth      AuthConfig      `yaml:"auth"`
	Hikvision HikvisionConfig `yaml:"hikvision"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	CORSOrigins  []string      `yaml:"cors_origins"`
}

// AuthConfig contains authentication settings
type AuthConfig struct {
	APIKeys []APIKey `yaml:"api_keys"`
}

// APIKey represents an API key for authentication
type APIKey struct {
	Name string `yaml:"name"`
	Key  string `yaml:"key"`
}

// HikvisionConfig contains the device fleet
type HikvisionConfig struct {
	Default    string                  `yaml:"default"`
	Format     string                  `yaml:"format"`      // json or xml
	AuthScheme string                  `yaml:"auth_scheme"` // digest or basic
	Devices    map[string]DeviceConfig `yaml:"devices"`
}

// DeviceConfig contains one device's connection settings
type DeviceConfig struct {
	Host      string        `yaml:"host"`
	Port      int           `yaml:"port"`
	Username  string        `yaml:"username"`
	Password  string        `yaml:"password"`
	Protocol  string        `yaml:"protocol"` // http or https
	Timeout   time.Duration `yaml:"timeout"`
	VerifyTLS bool          `yaml:"verify_tls"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or text
}

// Load reads and parses the configuration file, then applies HIKVISION_*
// environment overrides and defaults. An empty path configures everything
// from the environment.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		// Expand environment variables in the config
		expanded := os.ExpandEnv(string(data))

		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()

	return &cfg, nil
}

// ApplyDefaults fills every unset setting with its default
func (c *Config) ApplyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 60 * time.Second
	}
	if c.Hikvision.Default == "" {
		c.Hikvision.Default = DefaultDevice
	}
	if c.Hikvision.Format == "" {
		c.Hikvision.Format = client.DefaultFormat
	}
	if c.Hikvision.AuthScheme == "" {
		c.Hikvision.AuthScheme = string(auth.SchemeDigest)
	}
	for name, dev := range c.Hikvision.Devices {
		if dev.Port == 0 {
			dev.Port = client.DefaultPort
		}
		if dev.Protocol == "" {
			dev.Protocol = client.DefaultProtocol
		}
		if dev.Timeout == 0 {
			dev.Timeout = client.DefaultTimeout
		}
		c.Hikvision.Devices[name] = dev
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
}

// applyEnvOverrides applies environment variable overrides. Device variables
// target the default device and create it when the file does not define it.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("HIKVISION_DEFAULT_DEVICE"); v != "" {
		cfg.Hikvision.Default = v
	}
	if v := os.Getenv("HIKVISION_FORMAT"); v != "" {
		cfg.Hikvision.Format = v
	}
	if v := os.Getenv("HIKVISION_AUTH_SCHEME"); v != "" {
		cfg.Hikvision.AuthScheme = v
	}
	if v := os.Getenv("GATEWAY_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("GATEWAY_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("GATEWAY_API_KEY"); v != "" {
		cfg.Auth.APIKeys = append(cfg.Auth.APIKeys, APIKey{Name: "env", Key: v})
	}

	name := cfg.Hikvision.Default
	if name == "" {
		name = DefaultDevice
	}
	dev, defined := cfg.Hikvision.Devices[name]
	touched := false

	if v := os.Getenv("HIKVISION_IP"); v != "" {
		dev.Host, touched = v, true
	}
	if v := os.Getenv("HIKVISION_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("HIKVISION_PORT: %w", err)
		}
		dev.Port, touched = port, true
	}
	if v := os.Getenv("HIKVISION_USERNAME"); v != "" {
		dev.Username, touched = v, true
	}
	if v := os.Getenv("HIKVISION_PASSWORD"); v != "" {
		dev.Password, touched = v, true
	}
	if v := os.Getenv("HIKVISION_PROTOCOL"); v != "" {
		dev.Protocol, touched = v, true
	}
	if v := os.Getenv("HIKVISION_TIMEOUT"); v != "" {
		timeout, err := parseTimeout(v)
		if err != nil {
			return fmt.Errorf("HIKVISION_TIMEOUT: %w", err)
		}
		dev.Timeout, touched = timeout, true
	}
	if v := os.Getenv("HIKVISION_VERIFY_SSL"); v != "" {
		verify, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("HIKVISION_VERIFY_SSL: %w", err)
		}
		dev.VerifyTLS, touched = verify, true
	}

	if defined || touched {
		if cfg.Hikvision.Devices == nil {
			cfg.Hikvision.Devices = make(map[string]DeviceConfig)
		}
		cfg.Hikvision.Devices[name] = dev
	}
	return nil
}

// parseTimeout accepts whole seconds ("30") or a duration ("1m30s").
func parseTimeout(v string) (time.Duration, error) {
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(v)
}

// Validate reports every configuration problem at once
func (c *Config) Validate() error {
	var err error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		err = multierr.Append(err, errors.New("server.port must be between 1 and 65535"))
	}
	if len(c.Hikvision.Devices) == 0 {
		err = multierr.Append(err, errors.New("hikvision.devices: at least one device is required"))
	} else if _, ok := c.Hikvision.Devices[c.Hikvision.Default]; !ok {
		err = multierr.Append(err, fmt.Errorf("hikvision.default: device %q is not configured", c.Hikvision.Default))
	}
	switch strings.ToLower(c.Hikvision.Format) {
	case "json", "xml":
	default:
		err = multierr.Append(err, fmt.Errorf("hikvision.format: unsupported format %q", c.Hikvision.Format))
	}
	switch auth.Scheme(c.Hikvision.AuthScheme) {
	case auth.SchemeDigest, auth.SchemeBasic:
	default:
		err = multierr.Append(err, fmt.Errorf("hikvision.auth_scheme: unsupported scheme %q", c.Hikvision.AuthScheme))
	}

	for _, name := range c.DeviceNames() {
		dev := c.Hikvision.Devices[name]
		if strings.TrimSpace(dev.Host) == "" {
			err = multierr.Append(err, fmt.Errorf("hikvision.devices.%s.host is required", name))
		}
		if dev.Port < 1 || dev.Port > 65535 {
			err = multierr.Append(err, fmt.Errorf("hikvision.devices.%s.port must be between 1 and 65535", name))
		}
		switch dev.Protocol {
		case "http", "https":
		default:
			err = multierr.Append(err, fmt.Errorf("hikvision.devices.%s.protocol must be http or https", name))
		}
	}

	return err
}
