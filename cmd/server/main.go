// Command server runs the task management HTTP API.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/taskhive/taskhive/internal/config"
	"github.com/taskhive/taskhive/internal/platform/logger"
	"github.com/taskhive/taskhive/internal/redact"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server failed: %s\n", redact.Error(err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	ctx := context.Background()

	app, err := newApplication(ctx, cfg, log)
	if err != nil {
		return err
	}

	return app.startHTTPServer(ctx, app.setupRouter())
}
