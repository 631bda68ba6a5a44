package api

import (
	"context"
	"net/http"
	"time"

	"github.com/ignite/welcome-mailer/internal/config"
	"github.com/redis/go-redis/v9"
)

// Deps are the collaborators the HTTP layer needs. Redis may be nil.
type Deps struct {
	Subscriber Subscriber
	Store      Pinger
	Redis      *redis.Client
}

// Server represents the API server
type Server struct {
	config  config.ServerConfig
	handler http.Handler
	server  *http.Server
}

// NewServer creates a new API server
func NewServer(cfg config.ServerConfig, deps Deps) *Server {
	return &Server{
		config:  cfg,
		handler: SetupRoutes(cfg, deps),
	}
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the HTTP handler for testing
func (s *Server) Handler() http.Handler {
	return s.handler
}
