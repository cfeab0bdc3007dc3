package middleware

import (
	"net/http"
	"time"

	"view-tracker/internal/logger"
)

// statusRecorder captures the response status code for logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLogger logs each request with method, path, status and duration.
// Server errors are logged at error level, client errors at warn.
func RequestLogger(next http.Handler) http.Handler {
	log := logger.Default()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		fields := map[string]interface{}{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rec.status,
			"duration_ms": time.Since(start).Milliseconds(),
		}

		switch {
		case rec.status >= 500:
			log.Error("request", fields)
		case rec.status >= 400:
			log.Warn("request", fields)
		default:
			log.Info("request", fields)
		}
	})
}
