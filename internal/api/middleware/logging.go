package middleware

import (
	"net/http"
	"time"
)

// Logging пишет access log: метод, путь, статус, длительность и request id
func Logging(log Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)

			next.ServeHTTP(rec, r)

			duration := time.Since(start).Milliseconds()
			switch {
			case rec.status >= http.StatusInternalServerError:
				log.Error("%s %s - status=%d bytes=%d duration_ms=%d request_id=%s",
					r.Method, r.URL.Path, rec.status, rec.bytes, duration, GetRequestID(r.Context()))
			default:
				log.Info("%s %s - status=%d bytes=%d duration_ms=%d request_id=%s",
					r.Method, r.URL.Path, rec.status, rec.bytes, duration, GetRequestID(r.Context()))
			}
		})
	}
}
