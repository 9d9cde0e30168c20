package middleware

import (
	"net/http"
	"time"

	"github.com/zatekoja/ayucare/internal/infrastructure/observability"
	"go.opentelemetry.io/otel/attribute"
)

// RouteResolver maps a request to its registered pattern, or "" when no
// route matches
type RouteResolver func(r *http.Request) string

// unmatchedRoute labels requests no pattern matched so raw paths never
// become metric attributes
const unmatchedRoute = "unmatched"

// ObservabilityMiddleware traces each request and records the request
// metrics under its route pattern. resolve may be nil, in which case the
// request's own Pattern is used.
func ObservabilityMiddleware(metrics *observability.Metrics, resolve RouteResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := r.Pattern
			if resolve != nil {
				route = resolve(r)
			}
			if route == "" {
				route = unmatchedRoute
			}

			ctx, span := observability.StartSpan(r.Context(), route)
			defer span.End()

			span.SetAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.route", route),
				attribute.String("http.target", r.URL.Path),
				attribute.String("http.user_agent", r.UserAgent()),
			)

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(rw, r.WithContext(ctx))

			observability.RecordRequestMetric(ctx, metrics, r.Method, route, rw.statusCode, time.Since(start))
			span.SetAttributes(attribute.Int("http.status_code", rw.statusCode))
			if rw.statusCode >= http.StatusInternalServerError {
				span.SetAttributes(attribute.Bool("error", true))
			}
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

// Flush lets streamed responses through the wrapper
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
