package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/meme-api/internal/generation"
	"google.golang.org/genai"
)

// TextProvider generates captions with a Gemini text model.
type TextProvider struct {
	models ContentGenerator
	model  string
	logger *slog.Logger
}

var _ generation.Provider = (*TextProvider)(nil)

// NewTextProvider creates a caption provider for model.
func NewTextProvider(models ContentGenerator, model string, logger *slog.Logger) (*TextProvider, error) {
	if models == nil {
		return nil, errors.New("gemini client cannot be nil")
	}
	if model == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TextProvider{models: models, model: model, logger: logger}, nil
}

// Name implements generation.Provider.
func (p *TextProvider) Name() string { return ProviderName }

// Generate returns the concatenated text parts of the first candidate.
func (p *TextProvider) Generate(ctx context.Context, prompt string) (*generation.Output, error) {
	p.logger.DebugContext(ctx, "Making Gemini text call", "model", p.model, "prompt_length", len(prompt))

	resp, err := p.models.GenerateContent(ctx, p.model, genai.Text(prompt), nil)
	if err != nil {
		return nil, ClassifyError(err)
	}

	parts, err := firstCandidate(resp)
	if err != nil {
		return nil, generation.Permanent(ProviderName, err)
	}

	var sb strings.Builder
	for _, part := range parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return nil, generation.Permanent(ProviderName, fmt.Errorf("%w: no text in response", generation.ErrInvalidResponse))
	}

	return &generation.Output{Data: []byte(text), MIMEType: "text/plain"}, nil
}

// ImageProvider generates images with a Gemini image-capable model.
type ImageProvider struct {
	models ContentGenerator
	model  string
	logger *slog.Logger
}

var _ generation.Provider = (*ImageProvider)(nil)

// NewImageProvider creates an image provider for model.
func NewImageProvider(models ContentGenerator, model string, logger *slog.Logger) (*ImageProvider, error) {
	if models == nil {
		return nil, errors.New("gemini client cannot be nil")
	}
	if model == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ImageProvider{models: models, model: model, logger: logger}, nil
}

// Name implements generation.Provider.
func (p *ImageProvider) Name() string { return ProviderName }

// Generate returns the first inline image of the first candidate.
func (p *ImageProvider) Generate(ctx context.Context, prompt string) (*generation.Output, error) {
	p.logger.DebugContext(ctx, "Making Gemini image call", "model", p.model, "prompt_length", len(prompt))

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	}

	resp, err := p.models.GenerateContent(ctx, p.model, genai.Text(prompt), config)
	if err != nil {
		return nil, ClassifyError(err)
	}

	parts, err := firstCandidate(resp)
	if err != nil {
		return nil, generation.Permanent(ProviderName, err)
	}

	for _, part := range parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return &generation.Output{
				Data:     part.InlineData.Data,
				MIMEType: part.InlineData.MIMEType,
			}, nil
		}
	}

	return nil, generation.Permanent(ProviderName, fmt.Errorf("%w: no image data", generation.ErrInvalidResponse))
}
