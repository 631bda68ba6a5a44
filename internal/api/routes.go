package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/ignite/welcome-mailer/internal/config"
	"github.com/ignite/welcome-mailer/internal/metrics"
	"github.com/ignite/welcome-mailer/internal/pkg/httputil"
)

// SetupRoutes configures all routes.
func SetupRoutes(cfg config.ServerConfig, deps Deps) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(instrument)
	r.Use(recoverJSON)

	// Any origin by default; the subscribe form is embedded on other sites.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))

	banner := cfg.Banner
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		httputil.Text(w, http.StatusOK, banner)
	})

	sub := NewSubscribeHandler(deps.Subscriber)
	r.Post("/api/subscribe", sub.HandleSubscribe)
	r.Post("/subscribe", sub.HandleSubscribe)

	hc := NewHealthChecker(deps.Store, deps.Redis)
	r.Get("/health", hc.HandleHealth)
	r.Get("/health/live", hc.HandleLiveness)
	r.Get("/health/ready", hc.HandleReadiness)

	r.Method(http.MethodGet, "/metrics", metrics.MetricsHandler())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.NotFound(w, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httputil.Error(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}
