package api

import (
	"context"
	"crypto/subtle"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lei/hikvision-gateway/internal/config"
	"github.com/lei/hikvision-gateway/pkg/logger"
)

type apiKey struct {
	name   string
	secret []byte
}

// AuthMiddleware handles API key authentication
type AuthMiddleware struct {
	keys []apiKey
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(keys []config.APIKey) *AuthMiddleware {
	m := &AuthMiddleware{keys: make([]apiKey, 0, len(keys))}
	for _, k := range keys {
		m.keys = append(m.keys, apiKey{name: k.Name, secret: []byte(k.Key)})
	}
	return m
}

// lookup returns the name of the key matching token. Every configured key is
// compared so the time taken does not depend on which one matched.
func (m *AuthMiddleware) lookup(token string) (string, bool) {
	var name string
	found := 0
	for _, k := range m.keys {
		if subtle.ConstantTimeCompare(k.secret, []byte(token)) == 1 {
			name = k.name
			found = 1
		}
	}
	return name, found == 1
}

// Authenticate validates the API key from the Authorization header. Failures
// are logged with the device the request was aimed at.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.OrNop(GetLogger(r.Context()))
		device := deviceFromPath(r.URL.Path)

		reject := func(reason, message string, kv ...any) {
			log.Warn("authentication failed: "+reason, append([]any{"device", device}, kv...)...)
			respondError(w, r, http.StatusUnauthorized, message)
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			reject("missing authorization header", "missing authorization header")
			return
		}

		// Expect: "Bearer <api_key>"
		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || scheme != "Bearer" || token == "" {
			reject("invalid authorization format", "invalid authorization format, expected 'Bearer <token>'")
			return
		}

		name, valid := m.lookup(token)
		if !valid {
			reject("invalid api key", "invalid api key", "key_prefix", keyPrefix(token))
			return
		}

		reqLogger := log.With("api_key_name", name)
		reqLogger.Debug("authentication successful")

		ctx := context.WithValue(r.Context(), contextKeyAPIKeyName, name)
		ctx = logger.NewContext(ctx, reqLogger)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func keyPrefix(token string) string {
	if len(token) > 4 {
		return token[:4] + "..."
	}
	return "..."
}

// deviceFromPath returns the device segment of /.../devices/{device}/...,
// or "" for paths that address no device.
func deviceFromPath(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i := 0; i+1 < len(segments); i++ {
		if segments[i] != "devices" || segments[i+1] == "" {
			continue
		}
		if name, err := url.PathUnescape(segments[i+1]); err == nil {
			return name
		}
		return segments[i+1]
	}
	return ""
}

// DeviceScope records the {device} route parameter in the request context.
// The service layer logs the resolved device name itself.
func DeviceScope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), contextKeyDevice, chi.URLParam(r, "device"))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LoggingMiddleware adds structured logging to all requests
type LoggingMiddleware struct {
	logger *logger.Logger
}

// NewLoggingMiddleware creates a new logging middleware
func NewLoggingMiddleware(logger *logger.Logger) *LoggingMiddleware {
	return &LoggingMiddleware{logger: logger}
}

// Handler wraps HTTP handlers with a request-scoped logger and logs each
// completed request at a level matching its status.
func (m *LoggingMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetReqID(r.Context())
		if requestID == "" {
			requestID = "unknown"
		}

		reqLogger := m.logger.With(
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
		)

		ctx := logger.NewContext(r.Context(), reqLogger)
		ctx = context.WithValue(ctx, contextKeyRequestID, requestID)

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		reqLogger.Debug("request started",
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent())

		start := time.Now()
		defer func() {
			kv := []any{
				"status", wrapped.statusCode,
				"duration_ms", time.Since(start).Milliseconds(),
				"bytes_written", wrapped.bytesWritten,
			}
			if device := deviceFromPath(r.URL.Path); device != "" {
				kv = append(kv, "device", device)
			}

			// 502 reports a device failure, not a gateway one
			switch {
			case wrapped.statusCode == http.StatusBadGateway:
				reqLogger.Warn("request completed", kv...)
			case wrapped.statusCode >= 500:
				reqLogger.Error("request completed", kv...)
			case wrapped.statusCode >= 400:
				reqLogger.Warn("request completed", kv...)
			default:
				reqLogger.Info("request completed", kv...)
			}
		}()

		next.ServeHTTP(wrapped, r.WithContext(ctx))
	})
}

// responseWriter captures the status code and bytes written
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += n
	return n, err
}
