// Package main implements the entry point for the meme API server, which
// turns a topic into an AI-generated image and caption.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/meme-api/internal/config"
	"github.com/phrazzld/meme-api/internal/platform/logger"
)

// main is the entry point for the meme-api server.
// It loads configuration, sets up logging, assembles the application and
// serves HTTP until it receives SIGINT or SIGTERM.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func run(ctx context.Context) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	app, err := newApplication(cfg, l)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.startHTTPServer(ctx, app.setupRouter())
}

// loadAppConfig loads the application configuration from environment variables or config file.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"image_provider", cfg.LLM.ImageProvider,
		"caption_provider", cfg.LLM.CaptionProvider,
		"retry_enabled", cfg.Retry.Enabled)

	return cfg, nil
}
