package middleware

import (
	"net/http"
	"time"

	"currency_converter/internal/metrics"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

// Логируем HTTP запросы и считаем их в метриках
func LoggingMiddleware(logger *logrus.Logger, m *metrics.Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			// В метки кладём шаблон маршрута, а не сырой URL, чтобы не раздувать кардинальность
			path := r.URL.Path
			if route := mux.CurrentRoute(r); route != nil {
				if tpl, err := route.GetPathTemplate(); err == nil {
					path = tpl
				}
			}
			m.ObserveHTTPRequest(r.Method, path, wrapped.statusCode)

			logger.WithFields(logrus.Fields{
				"method":      r.Method,
				"url":         r.URL.String(),
				"status":      wrapped.statusCode,
				"duration":    time.Since(start).String(),
				"user_agent":  r.UserAgent(),
				"remote_addr": r.RemoteAddr,
			}).Info("HTTP request")
		})
	}
}

// Для восстановления от паник
func RecoveryMiddleware(logger *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.WithFields(logrus.Fields{
						"error":  err,
						"url":    r.URL.String(),
						"method": r.Method,
					}).Error("Panic recovered")

					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// API только читает данные, поэтому разрешаем GET с любого origin
func CORSMiddleware() mux.MiddlewareFunc {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		MaxAge:         86400,
	})

	return c.Handler
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
