package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// HealthChecker reports whether the persistence layer is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Availability short-circuits /api requests with a 503 while the store is
// unreachable, so the process can keep serving /health and /metrics in
// degraded mode.
func Availability(store HealthChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/api/") || r.URL.Path == "/api" {
				if store == nil {
					writeError(w, http.StatusServiceUnavailable, "service unavailable: database not connected")
					return
				}
				ctx, cancel := context.WithTimeout(r.Context(), time.Second)
				err := store.Ping(ctx)
				cancel()
				if err != nil {
					writeError(w, http.StatusServiceUnavailable, "service unavailable: database not connected")
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestLogger tags each request with an id and logs the outcome.
func RequestLogger(log *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := uuid.NewString()
			w.Header().Set("X-Request-Id", requestID)

			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(recorder, r)

			log.WithFields(logrus.Fields{
				"request_id":  requestID,
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      recorder.status,
				"duration_ms": time.Since(start).Milliseconds(),
			}).Info("request completed")
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
