// Package client owns one device's resolved address and request policy and
// builds every outbound request uniformly.
package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/lei/hikvision-gateway/pkg/isapi/auth"
	"github.com/lei/hikvision-gateway/pkg/isapi/transport"
	"github.com/lei/hikvision-gateway/pkg/isapi/wire"
	"github.com/lei/hikvision-gateway/pkg/logger"
)

// Gateway is the request chokepoint for one device. Its configuration is
// fixed at construction, so a Gateway is safe for concurrent use.
type Gateway struct {
	transport transport.Transport
	target    Target
	logger    *logger.Logger
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithLogger sets the gateway logger.
func WithLogger(log *logger.Logger) Option {
	return func(g *Gateway) {
		g.logger = logger.OrNop(log)
	}
}

// New creates a gateway for a resolved target.
func New(tr transport.Transport, target Target, opts ...Option) *Gateway {
	g := &Gateway{
		transport: tr,
		target:    target,
		logger:    logger.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewFromSettings resolves the named device (empty selects the default) and
// creates its gateway. It fails with *ConfigurationError when the device is
// not configured.
func NewFromSettings(tr transport.Transport, a auth.Authenticator, s Settings, name string, opts ...Option) (*Gateway, error) {
	target, err := ResolveTarget(a, s, name)
	if err != nil {
		return nil, err
	}
	return New(tr, target, opts...), nil
}

// Target returns the resolved device target.
func (g *Gateway) Target() Target {
	return g.target
}

// Get issues a GET request.
func (g *Gateway) Get(ctx context.Context, endpoint string, query url.Values) (wire.Value, error) {
	return g.do(ctx, http.MethodGet, endpoint, query, g.buildOptions())
}

// Post issues a POST request with a JSON body. A nil body sends none.
func (g *Gateway) Post(ctx context.Context, endpoint string, body any, query url.Values) (wire.Value, error) {
	opts := g.buildOptions()
	opts.JSON = body
	return g.do(ctx, http.MethodPost, endpoint, query, opts)
}

// Put issues a PUT request with a JSON body. A nil body sends none.
func (g *Gateway) Put(ctx context.Context, endpoint string, body any, query url.Values) (wire.Value, error) {
	opts := g.buildOptions()
	opts.JSON = body
	return g.do(ctx, http.MethodPut, endpoint, query, opts)
}

// Delete issues a DELETE request.
func (g *Gateway) Delete(ctx context.Context, endpoint string, query url.Values) (wire.Value, error) {
	return g.do(ctx, http.MethodDelete, endpoint, query, g.buildOptions())
}

// PostMultipart issues a POST request whose body is already split into named
// parts. The transport replaces the JSON content type with the multipart one.
func (g *Gateway) PostMultipart(ctx context.Context, endpoint string, parts []transport.Part, query url.Values) (wire.Value, error) {
	opts := g.buildOptions()
	opts.Multipart = parts
	return g.do(ctx, http.MethodPost, endpoint, query, opts)
}

func (g *Gateway) do(ctx context.Context, method, endpoint string, query url.Values, opts transport.Options) (wire.Value, error) {
	uri := g.buildURI(endpoint, query)

	g.logger.Debug("gateway: device request",
		"method", method,
		"endpoint", endpoint)

	resp, err := g.transport.Execute(ctx, method, uri, opts)
	if err != nil {
		g.logger.Warn("gateway: device request failed",
			"method", method,
			"endpoint", endpoint,
			"error", err)
		return wire.Value{}, err
	}

	return resp, nil
}

// buildURI appends the response format to the caller's query and encodes the
// merged set onto the base address
func (g *Gateway) buildURI(endpoint string, query url.Values) string {
	merged := make(url.Values, len(query)+1)
	for k, v := range query {
		merged[k] = append([]string(nil), v...)
	}
	merged.Set("format", g.target.Format)

	return g.target.BaseURL + endpoint + "?" + merged.Encode()
}

// buildOptions returns the per-call options every request carries. They are
// fixed by the target and cannot be overridden per request.
func (g *Gateway) buildOptions() transport.Options {
	return transport.Options{
		Auth:      g.target.Auth,
		Timeout:   g.target.Timeout,
		VerifyTLS: g.target.VerifyTLS,
		Headers: map[string]string{
			"Accept":       "application/json",
			"Content-Type": "application/json",
		},
	}
}
