// Package replicate provides a generation.Provider backed by the Replicate
// predictions API through the replicate-go client. Replicate returns image
// URLs, so the provider's Output carries a URL for the generation package to
// fetch.
package replicate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/phrazzld/meme-api/internal/generation"
	"github.com/phrazzld/meme-api/internal/platform/httpfetch"
	replicatego "github.com/replicate/replicate-go"
)

// ProviderName identifies this adapter in errors and logs.
const ProviderName = "replicate"

// Provider runs image predictions on a Replicate model.
type Provider struct {
	client       *replicatego.Client
	owner        string
	name         string
	pollInterval time.Duration
	logger       *slog.Logger
}

var _ generation.Provider = (*Provider)(nil)

type options struct {
	baseURL      string
	httpClient   *http.Client
	pollInterval time.Duration
	logger       *slog.Logger
}

// Option customizes a Provider.
type Option func(*options)

// WithBaseURL points the provider at a different API host. The URL includes
// the API version path, e.g. https://api.replicate.com/v1.
func WithBaseURL(baseURL string) Option {
	return func(o *options) { o.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) { o.httpClient = client }
}

// WithPollInterval sets the wait between status polls.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) { o.pollInterval = d }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// New creates a Provider for model ("owner/name") authenticated with token.
func New(token, model string, opts ...Option) (*Provider, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: replicate API token cannot be empty", generation.ErrInvalidConfig)
	}
	owner, name, ok := strings.Cut(model, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return nil, fmt.Errorf("%w: replicate model must be owner/name, got %q", generation.ErrInvalidConfig, model)
	}

	o := options{
		pollInterval: time.Second,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	clientOpts := []replicatego.ClientOption{replicatego.WithToken(token)}
	if o.baseURL != "" {
		clientOpts = append(clientOpts, replicatego.WithBaseURL(o.baseURL))
	}
	if o.httpClient != nil {
		clientOpts = append(clientOpts, replicatego.WithHTTPClient(o.httpClient))
	}

	client, err := replicatego.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Replicate client: %v", generation.ErrInvalidConfig, err)
	}

	return &Provider{
		client:       client,
		owner:        owner,
		name:         name,
		pollInterval: o.pollInterval,
		logger:       o.logger,
	}, nil
}

// Name implements generation.Provider.
func (p *Provider) Name() string { return ProviderName }

// Generate creates a prediction and waits for it to finish.
func (p *Provider) Generate(ctx context.Context, prompt string) (*generation.Output, error) {
	input := replicatego.PredictionInput{"prompt": prompt}

	pred, err := p.client.CreatePredictionWithModel(ctx, p.owner, p.name, input, nil, false)
	if err != nil {
		return nil, ClassifyError(err)
	}
	p.logger.DebugContext(ctx, "replicate prediction created", "prediction_id", pred.ID, "status", pred.Status)

	if err := p.client.Wait(ctx, pred, replicatego.WithPollingInterval(p.pollInterval)); err != nil {
		return nil, ClassifyError(err)
	}

	switch pred.Status {
	case replicatego.Succeeded:
		imageURL, err := firstOutputURL(pred.Output)
		if err != nil {
			return nil, generation.Permanent(ProviderName, err)
		}
		return &generation.Output{URL: imageURL}, nil
	case replicatego.Failed:
		return nil, generation.Permanent(ProviderName, fmt.Errorf("prediction %s failed: %v", pred.ID, pred.Error))
	default:
		return nil, generation.Permanent(ProviderName, fmt.Errorf("prediction %s was %s", pred.ID, pred.Status))
	}
}

// ClassifyError wraps a replicate-go error as transient or permanent.
// API errors are classified by their HTTP status; caller cancellation is
// permanent and other transport failures are transient.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *replicatego.APIError
	if errors.As(err, &apiErr) {
		if httpfetch.IsTransientStatus(apiErr.Status) {
			return generation.Transient(ProviderName, err)
		}
		return generation.Permanent(ProviderName, err)
	}

	return httpfetch.ClassifyTransportError(ProviderName, err)
}

// firstOutputURL accepts both the list and the single-string output shapes.
func firstOutputURL(output replicatego.PredictionOutput) (string, error) {
	switch v := output.(type) {
	case nil:
		return "", fmt.Errorf("%w: prediction has no output", generation.ErrInvalidResponse)
	case string:
		if v != "" {
			return v, nil
		}
	case []interface{}:
		for _, item := range v {
			if u, ok := item.(string); ok && u != "" {
				return u, nil
			}
		}
		return "", fmt.Errorf("%w: prediction output is empty", generation.ErrInvalidResponse)
	}
	return "", fmt.Errorf("%w: unexpected output %v", generation.ErrInvalidResponse, output)
}
