package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	httpmiddleware "github.com/lironregev/studio-leads/internal/http/middleware"
	"github.com/lironregev/studio-leads/internal/leads"
	"github.com/lironregev/studio-leads/internal/tracking"
	"github.com/lironregev/studio-leads/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	LeadsHandler       *leads.Handler
	TrackingHandler    *tracking.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// The contact handler owns its method semantics (POST/OPTIONS/405),
	// so it is mounted for all methods.
	if cfg.LeadsHandler != nil {
		r.HandleFunc("/api/contact", cfg.LeadsHandler.Submit)
	}
	if cfg.TrackingHandler != nil {
		r.Get("/api/tracking", cfg.TrackingHandler.Capture)
	}
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	return r
}
