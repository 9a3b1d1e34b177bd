package middleware

import (
	"net/http"
	"time"
)

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Logging пишет строку лога на каждый запрос. Ставится после RequestID.
func Logging(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)

			next.ServeHTTP(rec, r)

			duration := time.Since(start)
			requestID := RequestIDFromContext(r.Context())
			switch {
			case rec.status >= http.StatusInternalServerError:
				logger.Error("HTTP %s %s - status=%d, duration=%s, request_id=%s",
					r.Method, r.URL.Path, rec.status, duration, requestID)
			case rec.status >= http.StatusBadRequest:
				logger.Warn("HTTP %s %s - status=%d, duration=%s, request_id=%s",
					r.Method, r.URL.Path, rec.status, duration, requestID)
			default:
				logger.Info("HTTP %s %s - status=%d, duration=%s, request_id=%s",
					r.Method, r.URL.Path, rec.status, duration, requestID)
			}
		})
	}
}
