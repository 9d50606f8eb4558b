package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/splashpad/lesson-api/internal/platform/metrics"
)

// MetricsMiddleware records request count and latency per route pattern.
// It uses the chi route pattern rather than the raw path so ids do not blow
// up the label cardinality.
func MetricsMiddleware(manager *metrics.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			manager.RecordHTTPRequest(r.Method, route, ww.Status(), time.Since(start).Seconds())
		})
	}
}
