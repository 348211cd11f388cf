package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ilocksmithindiana/lead-service/internal/http/handlers"
	httpmiddleware "github.com/ilocksmithindiana/lead-service/internal/http/middleware"
	"github.com/ilocksmithindiana/lead-service/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	SubmitHandler      http.Handler
	SiteConfigHandler  *handlers.SiteConfigHandler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
	RateLimitPerHour   int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// Public form endpoints
	r.Group(func(public chi.Router) {
		if cfg.RateLimitPerHour > 0 {
			public.Use(httpmiddleware.RateLimitPerHour(cfg.RateLimitPerHour))
		}
		// All methods reach the handler; it answers 405 itself so the
		// error body stays JSON like every other response.
		public.Handle("/api/submit-form", cfg.SubmitHandler)
		if cfg.SiteConfigHandler != nil {
			public.Get("/api/config", cfg.SiteConfigHandler.Get)
		}
	})

	return r
}
