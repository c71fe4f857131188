// Package huggingface provides a generation.Provider backed by the Hugging
// Face inference API. Text-to-image models answer with the raw image bytes.
package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/meme-api/internal/generation"
	"github.com/phrazzld/meme-api/internal/platform/httpfetch"
)

// ProviderName identifies this adapter in errors and logs.
const ProviderName = "huggingface"

// DefaultBaseURL is the hosted inference endpoint.
const DefaultBaseURL = "https://router.huggingface.co/hf-inference/models"

type inferenceRequest struct {
	Inputs string `json:"inputs"`
}

// Provider calls a text-to-image model on the inference API.
type Provider struct {
	client  *http.Client
	baseURL string
	token   string
	model   string
	logger  *slog.Logger
}

var _ generation.Provider = (*Provider)(nil)

// Option customizes a Provider.
type Option func(*Provider)

// WithBaseURL points the provider at a different inference host.
func WithBaseURL(baseURL string) Option {
	return func(p *Provider) { p.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Provider) { p.client = client }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) { p.logger = logger }
}

// New creates a Provider for model authenticated with token.
func New(token, model string, opts ...Option) (*Provider, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: hugging face API token cannot be empty", generation.ErrInvalidConfig)
	}
	if model == "" {
		return nil, fmt.Errorf("%w: hugging face model cannot be empty", generation.ErrInvalidConfig)
	}

	p := &Provider{
		client:  http.DefaultClient,
		baseURL: DefaultBaseURL,
		token:   token,
		model:   model,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Name implements generation.Provider.
func (p *Provider) Name() string { return ProviderName }

// Generate posts the prompt and returns the image body. A 503 while the
// model is loading is transient.
func (p *Provider) Generate(ctx context.Context, prompt string) (*generation.Output, error) {
	body, err := json.Marshal(inferenceRequest{Inputs: prompt})
	if err != nil {
		return nil, generation.Permanent(ProviderName, err)
	}

	url := fmt.Sprintf("%s/%s", p.baseURL, p.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, generation.Permanent(ProviderName, err)
	}
	req.Header.Set("Authorization", "Bearer "+p.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "image/png")

	p.logger.DebugContext(ctx, "calling hugging face inference", "model", p.model)

	data, header, err := httpfetch.Do(p.client, ProviderName, req)
	if err != nil {
		return nil, err
	}

	mimeType := header.Get("Content-Type")
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, generation.Permanent(ProviderName,
			fmt.Errorf("%w: expected an image, got %q", generation.ErrInvalidResponse, mimeType))
	}
	if len(data) == 0 {
		return nil, generation.Permanent(ProviderName, fmt.Errorf("%w: empty image body", generation.ErrInvalidResponse))
	}

	return &generation.Output{Data: data, MIMEType: mimeType}, nil
}
