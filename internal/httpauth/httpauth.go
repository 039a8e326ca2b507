// Package httpauth fronts the streamable HTTP MCP endpoint with a static
// bearer token check, a health route and protected-resource metadata for
// OAuth-aware clients.
package httpauth

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const metadataPath = "/.well-known/oauth-protected-resource"

// Config configures the HTTP front.
type Config struct {
	// BearerToken is required on every MCP request. Empty disables the check.
	BearerToken string
	// ResourceURL is the public URL of the MCP endpoint.
	ResourceURL string
	// AuthorizationServers are advertised in the resource metadata.
	AuthorizationServers []string
}

// Handler routes /health and the resource metadata, and sends everything
// else through the bearer check to next. Requests are logged with logger.
func Handler(cfg Config, next http.Handler, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handleHealth)
	mux.HandleFunc("GET "+metadataPath, func(w http.ResponseWriter, r *http.Request) {
		servers := cfg.AuthorizationServers
		if servers == nil {
			servers = []string{}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"resource":              cfg.ResourceURL,
			"authorization_servers": servers,
		})
	})
	mux.Handle("/", RequireBearer(cfg, next))
	return LoggingMiddleware(logger, mux)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// RequireBearer rejects requests whose Authorization header does not carry
// cfg.BearerToken.
func RequireBearer(cfg Config, next http.Handler) http.Handler {
	if cfg.BearerToken == "" {
		return next
	}
	want := []byte(cfg.BearerToken)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(got), want) != 1 {
			challenge := `Bearer realm="opsdesk"`
			if cfg.ResourceURL != "" {
				challenge += fmt.Sprintf(`, resource_metadata="%s%s"`, strings.TrimSuffix(cfg.ResourceURL, "/"), metadataPath)
			}
			w.Header().Set("WWW-Authenticate", challenge)
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error":             "invalid_token",
				"error_description": "Missing or invalid bearer token",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// LoggingMiddleware logs each request with its duration. A request id is
// taken from X-Request-ID or generated, and echoed back.
func LoggingMiddleware(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("http request",
			zap.String("request_id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps streamed responses working through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Server returns an http.Server with the timeouts used for the MCP endpoint.
// WriteTimeout stays zero so long-lived event streams are not cut off.
func Server(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
