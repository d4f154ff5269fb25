package client

import (
	"errors"
	"fmt"
	"net"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/lei/hikvision-gateway/pkg/isapi/auth"
)

const (
	DefaultProtocol = "http"
	DefaultPort     = 80
	DefaultFormat   = "json"
	DefaultTimeout  = 30 * time.Second
)

// ErrDeviceNotConfigured indicates the selected device name has no settings
var ErrDeviceNotConfigured = errors.New("device configuration not found")

// ConfigurationError is returned when a gateway cannot be built from the
// supplied settings.
type ConfigurationError struct {
	Device string
	Err    error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error for device %q: %v", e.Device, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Settings is what a configuration provider hands to the client layer.
type Settings struct {
	Default string
	Format  string
	Devices map[string]DeviceSettings
}

// DeviceSettings describe how to reach one device.
type DeviceSettings struct {
	Host      string
	Port      int
	Username  string
	Password  string
	Protocol  string
	Timeout   time.Duration
	VerifyTLS bool
}

// Names returns the configured device names, sorted.
func (s Settings) Names() []string {
	names := make([]string, 0, len(s.Devices))
	for name := range s.Devices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Target is a fully resolved, immutable device address plus request policy.
type Target struct {
	BaseURL   string
	Auth      auth.Params
	Format    string
	Timeout   time.Duration
	VerifyTLS bool
}

// ResolveTarget selects a device by name (empty selects the default device)
// and resolves it into a Target.
func ResolveTarget(a auth.Authenticator, s Settings, name string) (Target, error) {
	if name == "" {
		name = s.Default
	}

	dev, ok := s.Devices[name]
	if !ok {
		return Target{}, &ConfigurationError{Device: name, Err: ErrDeviceNotConfigured}
	}
	if strings.TrimSpace(dev.Host) == "" {
		return Target{}, &ConfigurationError{Device: name, Err: errors.New("device host is empty")}
	}

	protocol := dev.Protocol
	if protocol == "" {
		protocol = DefaultProtocol
	}
	port := dev.Port
	if port == 0 {
		port = DefaultPort
	}
	format := s.Format
	if format == "" {
		format = DefaultFormat
	}
	timeout := dev.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return Target{
		BaseURL:   fmt.Sprintf("%s://%s", protocol, net.JoinHostPort(dev.Host, strconv.Itoa(port))),
		Auth:      a.BuildAuthParams(dev.Username, dev.Password),
		Format:    format,
		Timeout:   timeout,
		VerifyTLS: dev.VerifyTLS,
	}, nil
}
