package client

import (
	"github.com/lei/hikvision-gateway/pkg/isapi/auth"
	"github.com/lei/hikvision-gateway/pkg/isapi/transport"
)

// Registry holds one Gateway per configured device, keyed by name.
type Registry struct {
	gateways    map[string]*Gateway
	defaultName string
	names       []string
}

// NewRegistry builds a gateway for every configured device. The default
// device must be among them.
func NewRegistry(tr transport.Transport, a auth.Authenticator, s Settings, opts ...Option) (*Registry, error) {
	if _, ok := s.Devices[s.Default]; !ok {
		return nil, &ConfigurationError{Device: s.Default, Err: ErrDeviceNotConfigured}
	}

	r := &Registry{
		gateways:    make(map[string]*Gateway, len(s.Devices)),
		defaultName: s.Default,
		names:       s.Names(),
	}

	for _, name := range r.names {
		gw, err := NewFromSettings(tr, a, s, name, opts...)
		if err != nil {
			return nil, err
		}
		r.gateways[name] = gw
	}

	return r, nil
}

// Get returns the gateway for name. Empty selects the default device.
func (r *Registry) Get(name string) (*Gateway, error) {
	if name == "" {
		name = r.defaultName
	}
	gw, ok := r.gateways[name]
	if !ok {
		return nil, &ConfigurationError{Device: name, Err: ErrDeviceNotConfigured}
	}
	return gw, nil
}

// Default returns the default device's gateway.
func (r *Registry) Default() *Gateway {
	return r.gateways[r.defaultName]
}

// DefaultName returns the default device name.
func (r *Registry) DefaultName() string {
	return r.defaultName
}

// Names returns the configured device names, sorted.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}
