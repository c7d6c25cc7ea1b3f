package api

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"kycflow/internal/errors"

	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 10 * time.Second

// Server runs one named HTTP service until its context is cancelled
type Server struct {
	name       string
	httpServer *http.Server
}

// NewServer creates a server for handler listening on host:port
func NewServer(name, host string, port int, handler http.Handler) *Server {
	return &Server{
		name: name,
		httpServer: &http.Server{
			Addr:    net.JoinHostPort(host, strconv.Itoa(port)),
			Handler: handler,
		},
	}
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Run serves until ctx is done, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("Starting %s service on %s", s.name, s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- errors.Wrapf(err, "%s service failed", s.name)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msgf("Shutting down %s service", s.name)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.Wrapf(err, "%s service shutdown failed", s.name)
	}
	return nil
}
