package routes

import (
	"fmt"
	"net/http"

	ghandlers "github.com/gorilla/handlers"
	"github.com/rs/zerolog/log"
	"github.com/zatekoja/ayucare/internal/api/handlers"
	"github.com/zatekoja/ayucare/internal/api/middleware"
	"github.com/zatekoja/ayucare/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	userHandler        *handlers.UserHandler
	appointmentHandler *handlers.AppointmentHandler

	authLimiter     *middleware.RateLimiter
	cacheMiddleware *middleware.CacheMiddleware
	allowedOrigins  []string
	metrics         *observability.Metrics
}

// Options carries the optional parts of the middleware stack
type Options struct {
	// AuthLimiter throttles sign-up and sign-in; nil disables throttling
	AuthLimiter *middleware.RateLimiter
	// CacheMiddleware caches search responses; nil disables caching
	CacheMiddleware *middleware.CacheMiddleware
	AllowedOrigins  []string
	Metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	userHandler *handlers.UserHandler,
	appointmentHandler *handlers.AppointmentHandler,
	opts Options,
) *Router {
	return &Router{
		mux:                http.NewServeMux(),
		userHandler:        userHandler,
		appointmentHandler: appointmentHandler,
		authLimiter:        opts.AuthLimiter,
		cacheMiddleware:    opts.CacheMiddleware,
		allowedOrigins:     opts.AllowedOrigins,
		metrics:            opts.Metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Identity
	r.mux.Handle("POST /api/users/signup", r.throttled(r.userHandler.Signup))
	r.mux.Handle("POST /api/users/signin", r.throttled(r.userHandler.Signin))

	// Doctor directory
	r.mux.HandleFunc("GET /api/users/doctors", r.userHandler.ListDoctors)
	r.mux.HandleFunc("GET /api/users/doctors/search", r.userHandler.SearchDoctors)
	r.mux.HandleFunc("GET /api/users/doctors/{id}", r.userHandler.GetDoctor)
	r.mux.HandleFunc("GET /api/users/patients/count", r.userHandler.CountPatients)

	// Appointments
	r.mux.HandleFunc("POST /api/appointments", r.appointmentHandler.CreateAppointment)
	r.mux.HandleFunc("GET /api/appointments", r.appointmentHandler.ListAppointments)
	r.mux.HandleFunc("PUT /api/appointments/{id}", r.appointmentHandler.UpdateStatus)

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics, r.route)(handler)
	handler = middleware.ResponseOptimization(handler)
	handler = ghandlers.CompressHandler(handler)
	handler = ghandlers.RecoveryHandler(
		ghandlers.RecoveryLogger(recoveryLogger{}),
		ghandlers.PrintRecoveryStack(true),
	)(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}

// route resolves the pattern the mux would dispatch req to
func (r *Router) route(req *http.Request) string {
	_, pattern := r.mux.Handler(req)
	return pattern
}

func (r *Router) throttled(fn http.HandlerFunc) http.Handler {
	if r.authLimiter == nil {
		return fn
	}
	return r.authLimiter.HandlerFunc(fn)
}

// recoveryLogger routes recovered panics into zerolog
type recoveryLogger struct{}

func (recoveryLogger) Println(v ...interface{}) {
	log.Error().Str("component", "recovery").Msg(fmt.Sprint(v...))
}
