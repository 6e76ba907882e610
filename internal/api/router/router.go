// Package router wires the HTTP surface onto chi.
package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/homepros/booking-platform/internal/bookings"
	"github.com/homepros/booking-platform/internal/classify"
	httpmiddleware "github.com/homepros/booking-platform/internal/http/middleware"
	"github.com/homepros/booking-platform/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger             *logging.Logger
	BookingsHandler    *bookings.Handler
	ClassifyHandler    *classify.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.BookingsHandler != nil {
		r.Get("/availability", cfg.BookingsHandler.Availability)
		r.Route("/bookings", func(r chi.Router) {
			r.Post("/", cfg.BookingsHandler.Create)
			r.Get("/{id}", cfg.BookingsHandler.Get)
			r.Post("/{id}/reschedule", cfg.BookingsHandler.Reschedule)
			r.Post("/{id}/cancel", cfg.BookingsHandler.Cancel)
		})
	}

	if cfg.ClassifyHandler != nil {
		r.Post("/classify", cfg.ClassifyHandler.Classify)
	}

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
