package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/haroontrailblazer/College-Departments-Portal/pkg/logger"
)

// Logging attaches a request-scoped logger to the context and records one
// line per request.
func Logging(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := chiMiddleware.GetReqID(r.Context())

			ctx := logger.With(r.Context(), "request_id", reqID)
			next.ServeHTTP(w, r.WithContext(ctx))

			base.Info("http request",
				"request_id", reqID,
				"method", r.Method,
				"path", r.URL.Path,
				"duration_ms", time.Since(start).Milliseconds())
		})
	}
}
