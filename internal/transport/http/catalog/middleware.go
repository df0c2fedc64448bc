package catalog

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
)

// Middleware struct holds dependencies for middleware functions
type Middleware struct {
	Logger     hclog.Logger
	AdminToken string
}

func NewMiddleware(logger hclog.Logger, adminToken string) *Middleware {
	return &Middleware{Logger: logger, AdminToken: adminToken}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// LoggingMiddleware logs each request with a generated request id, which is
// also returned in X-Request-ID.
func (m *Middleware) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		m.Logger.Info("Completed request",
			"method", r.Method,
			"url", r.URL.Path,
			"status", rec.status,
			"request_id", requestID,
			"duration", time.Since(start),
		)
	})
}

// AdminMiddleware admits only callers presenting the admin bearer token.
// With no token configured every caller is admitted.
func (m *Middleware) AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.AdminToken == "" {
			next.ServeHTTP(w, r)
			return
		}
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if subtle.ConstantTimeCompare([]byte(token), []byte(m.AdminToken)) != 1 {
			writeJSON(w, http.StatusForbidden, ErrorResponse{
				Kind:    "Forbidden",
				Message: "administrator role required",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}
