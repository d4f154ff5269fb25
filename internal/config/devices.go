package config

import (
	"sort"

	"github.com/lei/hikvision-gateway/pkg/isapi/auth"
	"github.com/lei/hikvision-gateway/pkg/isapi/client"
)

// DeviceNames returns the configured device names, sorted
func (c *Config) DeviceNames() []string {
	names := make([]string, 0, len(c.Hikvision.Devices))
	for name := range c.Hikvision.Devices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Settings converts the device fleet into what the client layer consumes
func (h HikvisionConfig) Settings() client.Settings {
	devices := make(map[string]client.DeviceSettings, len(h.Devices))
	for name, dev := range h.Devices {
		devices[name] = client.DeviceSettings{
			Host:      dev.Host,
			Port:      dev.Port,
			Username:  dev.Username,
			Password:  dev.Password,
			Protocol:  dev.Protocol,
			Timeout:   dev.Timeout,
			VerifyTLS: dev.VerifyTLS,
		}
	}
	return client.Settings{
		Default: h.Default,
		Format:  h.Format,
		Devices: devices,
	}
}

// Authenticator returns the configured authentication policy
func (h HikvisionConfig) Authenticator() auth.Authenticator {
	return auth.ForScheme(h.AuthScheme)
}
