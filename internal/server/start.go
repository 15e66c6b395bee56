package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nfrund/passauth/internal/app"
)

const shutdownTimeout = 10 * time.Second

// Start runs the HTTP server until ctx is done or the process receives
// SIGINT or SIGTERM. It then drains in-flight requests and shuts down every
// service the injector built.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := s.deps.Config.GetAppAddr()
	serveErr := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server", "addr", addr)
		if err := s.E.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var errs []error
	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down server")
	case err := <-serveErr:
		errs = append(errs, err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.E.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	if err := app.Shutdown(shutdownCtx, s.injector); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
