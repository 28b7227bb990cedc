package web

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"quickgrab-listing-feed/internal/config"

	"github.com/rs/zerolog"
)

// Server is the HTTP server hosting the listing feed. Its handler can be
// swapped at runtime so development reloads keep the listener open.
type Server struct {
	handler    atomic.Pointer[http.Handler]
	httpServer *http.Server
	config     *config.Config
	logger     zerolog.Logger
}

type ServerParams struct {
	Config  *config.Config
	Handler http.Handler
	Logger  zerolog.Logger
}

func NewServer(params ServerParams) *Server {
	server := &Server{
		config: params.Config,
		logger: params.Logger.With().Str("component", "http_server").Logger(),
	}
	server.SwapHandler(params.Handler)

	server.httpServer = &http.Server{
		Addr:         params.Config.Address(),
		Handler:      http.HandlerFunc(server.serveHTTP),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server
}

func (s *Server) serveHTTP(w http.ResponseWriter, r *http.Request) {
	(*s.handler.Load()).ServeHTTP(w, r)
}

// SwapHandler replaces the handler used for new requests
func (s *Server) SwapHandler(handler http.Handler) {
	s.handler.Store(&handler)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info().Str("port", s.config.Server.Port).Msg("Starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info().Msg("Stopping HTTP server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info().Msg("HTTP server stopped")
	return nil
}
