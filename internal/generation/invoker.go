package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"
)

// InvokerConfig assembles an Invoker.
type InvokerConfig struct {
	// Image is required.
	Image Provider
	// Caption is optional; nil means the result carries no caption.
	Caption Provider
	// Fetcher resolves URL outputs. Required when Image can return URLs.
	Fetcher Fetcher
	Prompts *Prompts

	// Retry applies to the image call only. Use NoRetry() for single-attempt mode.
	Retry RetryPolicy
	// RetryFetch puts the URL fetch under Retry as well.
	RetryFetch bool
	// Concurrent issues the caption and image calls at the same time.
	Concurrent bool

	Logger *slog.Logger
}

// Invoker implements Generator on top of one or two providers.
type Invoker struct {
	image      Provider
	caption    Provider
	fetcher    Fetcher
	prompts    *Prompts
	retry      RetryPolicy
	retryFetch bool
	concurrent bool
	logger     *slog.Logger
}

var _ Generator = (*Invoker)(nil)

// NewInvoker validates cfg and returns an Invoker.
func NewInvoker(cfg InvokerConfig) (*Invoker, error) {
	if cfg.Image == nil {
		return nil, fmt.Errorf("%w: image provider cannot be nil", ErrInvalidConfig)
	}
	if cfg.Prompts == nil {
		return nil, fmt.Errorf("%w: prompts cannot be nil", ErrInvalidConfig)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Invoker{
		image:      cfg.Image,
		caption:    cfg.Caption,
		fetcher:    cfg.Fetcher,
		prompts:    cfg.Prompts,
		retry:      cfg.Retry,
		retryFetch: cfg.RetryFetch,
		concurrent: cfg.Concurrent,
		logger:     logger,
	}, nil
}

// Generate produces a meme for topic.
func (inv *Invoker) Generate(ctx context.Context, topic string) (*Result, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrEmptyTopic
	}

	log := inv.logger.With("topic_length", len(topic), "image_provider", inv.image.Name())
	result := &Result{}

	if inv.concurrent && inv.caption != nil {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			caption, err := inv.generateCaption(gctx, topic)
			result.Caption = caption
			return err
		})
		g.Go(func() error {
			return inv.generateImage(gctx, log, topic, result)
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return result, nil
	}

	if inv.caption != nil {
		caption, err := inv.generateCaption(ctx, topic)
		if err != nil {
			return nil, err
		}
		result.Caption = caption
	}

	if err := inv.generateImage(ctx, log, topic, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (inv *Invoker) generateCaption(ctx context.Context, topic string) (string, error) {
	prompt, err := inv.prompts.Caption(topic)
	if err != nil {
		return "", err
	}

	out, err := inv.caption.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("caption generation failed: %w", err)
	}
	if out == nil || len(out.Data) == 0 {
		return "", Permanent(inv.caption.Name(), fmt.Errorf("%w: empty caption", ErrInvalidResponse))
	}
	return strings.TrimSpace(string(out.Data)), nil
}

// generateImage writes ImageData and MIMEType into result.
func (inv *Invoker) generateImage(ctx context.Context, log *slog.Logger, topic string, result *Result) error {
	prompt, err := inv.prompts.Image(topic)
	if err != nil {
		return err
	}

	out, err := Retry(ctx, inv.retry, log, func(ctx context.Context) (*Output, error) {
		out, err := inv.image.Generate(ctx, prompt)
		if err != nil {
			return nil, err
		}
		if out == nil || (len(out.Data) == 0 && out.URL == "") {
			return nil, Permanent(inv.image.Name(), fmt.Errorf("%w: no image in response", ErrInvalidResponse))
		}
		return out, nil
	})
	if err != nil {
		if errors.Is(err, ErrRetriesExhausted) {
			return err
		}
		return fmt.Errorf("image generation failed: %w", err)
	}

	data, mimeType := out.Data, out.MIMEType
	if len(data) == 0 {
		data, mimeType, err = inv.fetch(ctx, log, out.URL)
		if err != nil {
			return err
		}
	}

	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	result.ImageData = data
	result.MIMEType = mimeType
	return nil
}

// fetch resolves a URL output. It runs once unless RetryFetch is set.
func (inv *Invoker) fetch(ctx context.Context, log *slog.Logger, url string) ([]byte, string, error) {
	if inv.fetcher == nil {
		return nil, "", fmt.Errorf("%w: provider returned a URL but no fetcher is configured", ErrInvalidConfig)
	}

	policy := NoRetry()
	if inv.retryFetch {
		policy = inv.retry
	}

	type fetched struct {
		data     []byte
		mimeType string
	}
	f, err := Retry(ctx, policy, log, func(ctx context.Context) (fetched, error) {
		data, mimeType, err := inv.fetcher.FetchBytes(ctx, url)
		if err != nil {
			return fetched{}, err
		}
		if len(data) == 0 {
			return fetched{}, Permanent("fetch", fmt.Errorf("%w: empty image body", ErrInvalidResponse))
		}
		return fetched{data: data, mimeType: mimeType}, nil
	})
	if err != nil {
		return nil, "", fmt.Errorf("image download failed: %w", err)
	}
	return f.data, f.mimeType, nil
}
