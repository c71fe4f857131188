package gemini

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"syscall"

	"github.com/phrazzld/meme-api/internal/generation"
	"google.golang.org/genai"
)

// ProviderName identifies this adapter in errors and logs.
const ProviderName = "gemini"

// ContentGenerator is the subset of *genai.Models used by the providers.
type ContentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// NewClient creates a Gemini API client for apiKey and returns its models
// service.
func NewClient(ctx context.Context, apiKey string) (ContentGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return client.Models, nil
}

// ClassifyError wraps a Gemini SDK error as transient or permanent.
//
// 5xx and 429 responses, deadlines, network timeouts, transport failures and
// response bodies cut off mid-read are transient. Other API errors and caller
// cancellation are permanent.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) {
		return generation.Permanent(ProviderName, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return generation.Transient(ProviderName, err)
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code >= 500 || apiErr.Code == 429 {
			return generation.Transient(ProviderName, err)
		}
		return generation.Permanent(ProviderName, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return generation.Transient(ProviderName, err)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return generation.Transient(ProviderName, err)
	}

	if errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, syscall.ECONNRESET) {
		return generation.Transient(ProviderName, err)
	}

	return generation.Permanent(ProviderName, err)
}

// firstCandidate validates resp and returns the parts of its first candidate.
func firstCandidate(resp *genai.GenerateContentResponse) ([]*genai.Part, error) {
	if resp == nil {
		return nil, fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return nil, fmt.Errorf("%w: prompt blocked (%s)", generation.ErrContentBlocked, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return nil, fmt.Errorf("%w: content blocked by safety filters", generation.ErrContentBlocked)
	}
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}
	return candidate.Content.Parts, nil
}
