package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// RequestObserver records request latency. metrics.Metrics implements it.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, d time.Duration)
}

// NewMetricsHandler returns a middleware that reports every request's
// latency to obs, labeled by chi route pattern.
func NewMetricsHandler(obs RequestObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			obs.ObserveRequest(r.Method, routePattern(r), status(ww), time.Since(start))
		})
	}
}
