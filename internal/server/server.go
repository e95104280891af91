// Package server runs the reveal HTTP server.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// Server manages the HTTP server lifecycle.
//
// It wraps an http.Server with configuration and stops gracefully when
// the context passed to Run is cancelled.
type Server struct {
	config *Config
	server *http.Server
	logger *slog.Logger
}

// New creates a new server instance.
//
// Parameters:
//   - config: server configuration (timeouts, port, size limits)
//   - handler: the HTTP handler serving every request
//   - logger: structured logger instance
//
// Returns a new Server instance.
func New(config *Config, handler http.Handler, logger *slog.Logger) *Server {
	return &Server{
		config: config,
		server: &http.Server{
			Addr:              ":" + config.Port,
			Handler:           handler,
			ReadTimeout:       config.ReadTimeout,
			ReadHeaderTimeout: config.ReadTimeout,
			WriteTimeout:      config.WriteTimeout,
			IdleTimeout:       config.IdleTimeout,
			MaxHeaderBytes:    config.MaxHeaderBytes,
		},
		logger: logger,
	}
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.server.Addr
}

// Run listens on the configured port and serves until ctx is cancelled.
//
// See Serve for the shutdown behaviour.
func (s *Server) Run(ctx context.Context, shutdownTimeout time.Duration) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln, shutdownTimeout)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts the
// server down, waiting up to shutdownTimeout for active requests.
//
// Returns nil after a graceful shutdown, or the error that stopped the
// server.
func (s *Server) Serve(ctx context.Context, ln net.Listener, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Debug("Starting HTTP server", "addr", ln.Addr().String())
		errCh <- s.server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Debug("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("Server forced to shutdown", "error", err)
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Debug("Server stopped gracefully")
	return nil
}
