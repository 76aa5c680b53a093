package middlewares

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// RequestObserver es la parte de metrics.Metrics que usa el middleware.
type RequestObserver interface {
	RequestStarted() func()
	ObserveRequest(method, route string, status int, d time.Duration)
}

// WithMetrics mide cada request etiquetando por patrón de ruta de chi
// ("/project/{projectId}"), nunca por path crudo.
func WithMetrics(m RequestObserver) Middleware {
	if m == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			done := m.RequestStarted()
			defer done()

			start := time.Now()
			rec := record(w)
			next.ServeHTTP(rec, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					route = p
				}
			}
			m.ObserveRequest(r.Method, route, rec.status, time.Since(start))
		})
	}
}
