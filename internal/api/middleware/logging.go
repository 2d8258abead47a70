package middleware

import (
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Logging пишет строку лога на каждый запрос и перехватывает панику обработчика
func Logging(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			defer func() {
				if p := recover(); p != nil {
					logger.Error("%s %s - panic: %v (request_id=%s)", r.Method, r.URL.Path, p, GetRequestID(r.Context()))
					rec.WriteHeader(http.StatusInternalServerError)
				}
				logger.Info("%s %s - %d in %s (request_id=%s)",
					r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Microsecond), GetRequestID(r.Context()))
			}()

			next.ServeHTTP(rec, r)
		})
	}
}
