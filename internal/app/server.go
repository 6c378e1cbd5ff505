// Package app wires the HTTP server and router.
package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/tutorgate/tutorgate/internal/config"
)

// Server wraps the HTTP server with its configuration
type Server struct {
	httpServer *http.Server
	config     *config.Config
	logger     *slog.Logger
}

// NewServer creates a new configured HTTP server instance
func NewServer(cfg *config.Config, handler http.Handler, logger *slog.Logger) *Server {
	srv := &http.Server{
		Addr:    cfg.ServerPort,
		Handler: handler,
		// Generous read/write timeouts: voice uploads and long
		// generations have to fit inside them, plus the 60s upstream
		// ceiling.
		ReadTimeout:  120 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer: srv,
		config:     cfg,
		logger:     logger,
	}
}

// Start begins listening and serving HTTP requests
func (s *Server) Start() error {
	s.logger.Info("server starting", "addr", s.config.ServerPort)
	return s.httpServer.ListenAndServe()
}
