package server

import (
	"net/http"
	"time"

	"github.com/hemal8976/personal-webhook/internal/common/logger"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// LoggingMiddleware logs one line per request with the request id, method,
// path, status, and duration.
func LoggingMiddleware(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			log.Info("request handled", map[string]interface{}{
				"requestId": GetRequestID(r.Context()),
				"method":    r.Method,
				"path":      r.URL.Path,
				"status":    rec.status,
				"duration":  time.Since(start).String(),
			})
		})
	}
}
