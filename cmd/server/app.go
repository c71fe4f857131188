package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/meme-api/internal/api"
	"github.com/phrazzld/meme-api/internal/config"
	"github.com/phrazzld/meme-api/internal/generation"
	"github.com/phrazzld/meme-api/internal/platform/gemini"
	"github.com/phrazzld/meme-api/internal/platform/httpfetch"
	"github.com/phrazzld/meme-api/internal/platform/huggingface"
	"github.com/phrazzld/meme-api/internal/platform/metrics"
	"github.com/phrazzld/meme-api/internal/platform/replicate"
)

// application holds all the shared application dependencies.
type application struct {
	config *config.Config
	logger *slog.Logger

	prompts    *generation.Prompts
	retry      generation.RetryPolicy
	httpClient *http.Client

	// metrics is nil when server.metrics_enabled is false.
	metrics *metrics.Collector

	// newGenerator builds the per-request generator. Tests swap it out.
	newGenerator api.GeneratorFactory
}

// newApplication creates a new application instance from already loaded
// configuration. No provider is contacted here; provider clients are built
// per request once the required secrets have been checked.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	captionPrompt := cfg.Generation.CaptionPrompt
	if captionPrompt == "" {
		captionPrompt = config.DefaultCaptionPrompt
	}
	imagePrompt := cfg.Generation.ImagePrompt
	if imagePrompt == "" {
		imagePrompt = config.DefaultImagePrompt
	}

	prompts, err := generation.NewPrompts(captionPrompt, imagePrompt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt templates: %w", err)
	}

	app := &application{
		config:     cfg,
		logger:     logger,
		prompts:    prompts,
		retry:      retryPolicy(cfg.Retry),
		httpClient: httpfetch.NewHTTPClient(time.Duration(cfg.LLM.RequestTimeoutSeconds) * time.Second),
	}
	app.newGenerator = app.buildGenerator
	if cfg.Server.MetricsEnabled {
		app.metrics = metrics.NewCollector("meme")
	}

	logger.Info("application initialized",
		"image_provider", cfg.LLM.ImageProvider,
		"caption_provider", cfg.LLM.CaptionProvider,
		"max_attempts", app.retry.MaxAttempts,
		"concurrent", cfg.Generation.Concurrent)

	return app, nil
}

// retryPolicy converts RetryConfig into a policy. A disabled retry config
// yields a single attempt.
func retryPolicy(cfg config.RetryConfig) generation.RetryPolicy {
	if !cfg.Enabled {
		return generation.NoRetry()
	}
	return generation.RetryPolicy{
		MaxAttempts: cfg.MaxAttempts,
		BaseDelay:   time.Duration(cfg.BaseDelayMS) * time.Millisecond,
		Multiplier:  cfg.Multiplier,
	}
}

// buildGenerator wires the configured image and caption providers into an
// Invoker using the given secrets.
func (app *application) buildGenerator(ctx context.Context, secrets config.Secrets) (generation.Generator, error) {
	llm := app.config.LLM
	log := app.logger.With("component", "generator")

	var models gemini.ContentGenerator
	geminiModels := func() (gemini.ContentGenerator, error) {
		if models != nil {
			return models, nil
		}
		var err error
		models, err = gemini.NewClient(ctx, secrets.Lookup(config.EnvGeminiAPIKey))
		return models, err
	}

	var image generation.Provider
	switch llm.ImageProvider {
	case config.ProviderGemini:
		m, err := geminiModels()
		if err != nil {
			return nil, err
		}
		image, err = gemini.NewImageProvider(m, llm.GeminiImageModel, log)
		if err != nil {
			return nil, err
		}
	case config.ProviderReplicate:
		p, err := replicate.New(secrets.Lookup(config.EnvReplicateAPIToken), llm.ReplicateModel,
			replicate.WithHTTPClient(app.httpClient),
			replicate.WithLogger(log))
		if err != nil {
			return nil, err
		}
		image = p
	case config.ProviderHuggingFace:
		p, err := huggingface.New(secrets.Lookup(config.EnvHFAPIToken), llm.HFModel,
			huggingface.WithHTTPClient(app.httpClient),
			huggingface.WithLogger(log))
		if err != nil {
			return nil, err
		}
		image = p
	default:
		return nil, fmt.Errorf("%w: unknown image provider %q", generation.ErrInvalidConfig, llm.ImageProvider)
	}

	var caption generation.Provider
	if llm.CaptionProvider == config.ProviderGemini {
		m, err := geminiModels()
		if err != nil {
			return nil, err
		}
		caption, err = gemini.NewTextProvider(m, llm.TextModel, log)
		if err != nil {
			return nil, err
		}
	}

	if app.metrics != nil {
		image = app.metrics.InstrumentProvider(image)
		caption = app.metrics.InstrumentProvider(caption)
	}

	return generation.NewInvoker(generation.InvokerConfig{
		Image:      image,
		Caption:    caption,
		Fetcher:    httpfetch.NewFetcher(app.httpClient),
		Prompts:    app.prompts,
		Retry:      app.retry,
		RetryFetch: app.config.Retry.CoverURLFetch,
		Concurrent: app.config.Generation.Concurrent,
		Logger:     log,
	})
}
