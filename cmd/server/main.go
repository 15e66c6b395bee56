package main

import (
	"context"
	"os"

	"github.com/nfrund/passauth/internal/app"
	"github.com/nfrund/passauth/internal/config"
	"github.com/nfrund/passauth/internal/logging"
	"github.com/nfrund/passauth/internal/server"
)

func main() {
	logger := logging.New()

	cfg, err := config.New()
	if err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	// Create a new server instance.
	s, err := server.New(app.NewInjector(cfg, logger))
	if err != nil {
		logger.Error("Failed to initialize server", "error", err)
		os.Exit(1)
	}

	// Register all application routes.
	s.RegisterRoutes()

	if err := s.Start(context.Background()); err != nil {
		logger.Error("Server stopped with errors", "error", err)
		os.Exit(1)
	}
}
