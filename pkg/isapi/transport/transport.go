// Package transport performs single HTTP exchanges with a device and
// normalizes every response into one envelope shape.
package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"sync"
	"time"

	"github.com/icholy/digest"

	"github.com/lei/hikvision-gateway/pkg/isapi/auth"
	"github.com/lei/hikvision-gateway/pkg/isapi/wire"
	"github.com/lei/hikvision-gateway/pkg/logger"
)

//go:generate mockgen -destination=../client/mock_transport_test.go -package=client github.com/lei/hikvision-gateway/pkg/isapi/transport Transport

// Transport performs one request/response exchange.
type Transport interface {
	Execute(ctx context.Context, method, uri string, opts Options) (wire.Value, error)
}

// Options carry everything a single exchange needs besides method and URI.
type Options struct {
	Auth      auth.Params
	Timeout   time.Duration
	VerifyTLS bool
	Headers   map[string]string

	// JSON is encoded as the request body when non-nil.
	JSON any

	// Multipart, when non-empty, replaces JSON with a multipart/form-data
	// body and overrides any Content-Type header.
	Multipart []Part
}

// Part is one named multipart form part. Data is passed through unchanged.
type Part struct {
	Name        string
	Filename    string
	ContentType string
	Data        []byte
}

// HTTPTransport implements Transport over net/http.
//
// Clients are cached per credential set and TLS mode so Digest challenges are
// reused across calls. It is safe for concurrent use.
type HTTPTransport struct {
	base   *http.Transport
	logger *logger.Logger

	mu      sync.Mutex
	clients map[clientKey]*http.Client
}

type clientKey struct {
	scheme    auth.Scheme
	username  string
	password  string
	verifyTLS bool
}

// Option configures an HTTPTransport.
type Option func(*HTTPTransport)

// WithLogger sets the transport logger.
func WithLogger(log *logger.Logger) Option {
	return func(t *HTTPTransport) {
		t.logger = logger.OrNop(log)
	}
}

// WithBaseTransport sets the round tripper template cloned for every client.
func WithBaseTransport(base *http.Transport) Option {
	return func(t *HTTPTransport) {
		if base != nil {
			t.base = base
		}
	}
}

// NewHTTPTransport creates a transport.
func NewHTTPTransport(opts ...Option) *HTTPTransport {
	t := &HTTPTransport{
		base:    http.DefaultTransport.(*http.Transport).Clone(),
		logger:  logger.NewNop(),
		clients: make(map[clientKey]*http.Client),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Execute implements Transport.
func (t *HTTPTransport) Execute(ctx context.Context, method, uri string, opts Options) (wire.Value, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	body, contentType, err := encodeBody(opts)
	if err != nil {
		return wire.Value{}, &Error{Message: "encode request body", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, method, uri, body)
	if err != nil {
		return wire.Value{}, &Error{Message: "create request", Err: err}
	}

	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if opts.Auth.Scheme == auth.SchemeBasic && opts.Auth.Username != "" {
		req.SetBasicAuth(opts.Auth.Username, opts.Auth.Password)
	}

	t.logger.Debug("transport: http request",
		"method", method,
		"uri", req.URL.Redacted(),
		"multipart_parts", len(opts.Multipart))

	resp, err := t.client(opts).Do(req)
	if err != nil {
		t.logger.Error("transport: http request failed",
			"method", method,
			"uri", req.URL.Redacted(),
			"error", err)
		return wire.Value{}, &Error{Message: "HTTP request failed", Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return wire.Value{}, &Error{Message: "read response body", Code: resp.StatusCode, Err: err}
	}

	t.logger.Debug("transport: http response",
		"method", method,
		"uri", req.URL.Redacted(),
		"status", resp.StatusCode,
		"bytes", len(data))

	if resp.StatusCode >= http.StatusBadRequest {
		return wire.Value{}, parseError(resp.StatusCode, resp.Header.Get("Content-Type"), data)
	}

	return Normalize(resp.Header.Get("Content-Type"), data), nil
}

// client returns the cached HTTP client for the credential set and TLS mode
func (t *HTTPTransport) client(opts Options) *http.Client {
	key := clientKey{
		scheme:    opts.Auth.Scheme,
		username:  opts.Auth.Username,
		password:  opts.Auth.Password,
		verifyTLS: opts.VerifyTLS,
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if c, ok := t.clients[key]; ok {
		return c
	}

	rt := t.base.Clone()
	rt.TLSClientConfig = &tls.Config{
		InsecureSkipVerify: !opts.VerifyTLS, //nolint:gosec // devices ship self-signed certificates
	}

	var roundTripper http.RoundTripper = rt
	if key.scheme == auth.SchemeDigest && key.username != "" {
		roundTripper = &digest.Transport{
			Username:  key.username,
			Password:  key.password,
			Transport: rt,
		}
	}

	c := &http.Client{Transport: roundTripper}
	t.clients[key] = c
	return c
}

// encodeBody builds the request body. The returned reader is rewindable so the
// Digest handshake can resend it.
func encodeBody(opts Options) (io.Reader, string, error) {
	if len(opts.Multipart) > 0 {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		for _, p := range opts.Multipart {
			if err := writePart(w, p); err != nil {
				return nil, "", fmt.Errorf("write part %q: %w", p.Name, err)
			}
		}
		if err := w.Close(); err != nil {
			return nil, "", err
		}
		return bytes.NewReader(buf.Bytes()), w.FormDataContentType(), nil
	}

	if opts.JSON == nil {
		return nil, "", nil
	}

	b, err := json.Marshal(opts.JSON)
	if err != nil {
		return nil, "", err
	}
	return bytes.NewReader(b), "", nil
}

func writePart(w *multipart.Writer, p Part) error {
	disposition := fmt.Sprintf(`form-data; name=%q`, p.Name)
	if p.Filename != "" {
		disposition += fmt.Sprintf(`; filename=%q`, p.Filename)
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", disposition)
	if p.ContentType != "" {
		h.Set("Content-Type", p.ContentType)
	}

	pw, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = pw.Write(p.Data)
	return err
}
