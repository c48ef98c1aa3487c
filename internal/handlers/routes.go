package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Dependencies are the handlers mounted by the local server.
type Dependencies struct {
	FormIntake *FormIntakeHandler
	CallEvents *CallEventsHandler
	Health     *HealthHandler
	Log        *zap.Logger
}

// Routes builds the local development router. Method checks are left to the
// handlers so that 405 answers match the deployed functions.
func Routes(d Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger(d.Log))

	r.HandleFunc("/api/duda-form", HTTPHandler(d.FormIntake.Handle))
	r.HandleFunc("/api/vapi-events", HTTPHandler(d.CallEvents.Handle))

	r.HandleFunc("/health", HTTPHandler(d.Health.Handle))
	r.HandleFunc("/api/health", HTTPHandler(d.Health.Handle))

	r.Handle("/metrics", promhttp.Handler())

	return r
}

// RequestLogger logs HTTP requests and responses
func RequestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Wrap response writer to capture status code
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			log.Info("HTTP request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", wrapped.statusCode),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", wrapped.Header().Get("X-Request-Id")),
			)
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
