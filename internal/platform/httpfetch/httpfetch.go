// Package httpfetch holds the HTTP plumbing shared by the REST-based
// providers: status and transport error classification, and a
// generation.Fetcher for URL results.
package httpfetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/phrazzld/meme-api/internal/generation"
)

// MaxBodyBytes caps the size of a response body. Larger bodies are rejected
// rather than truncated.
const MaxBodyBytes = 20 << 20

// maxErrorSnippet caps how much of an error body is quoted in errors.
const maxErrorSnippet = 256

// StatusError is a non-2xx HTTP response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// IsTransientStatus reports whether an HTTP status is worth retrying.
func IsTransientStatus(code int) bool {
	return code >= 500 || code == http.StatusTooManyRequests || code == http.StatusRequestTimeout
}

// ClassifyStatus returns nil for 2xx, otherwise a classified *StatusError.
func ClassifyStatus(provider string, code int, body []byte) error {
	if code >= 200 && code < 300 {
		return nil
	}

	snippet := strings.TrimSpace(string(body))
	if len(snippet) > maxErrorSnippet {
		snippet = snippet[:maxErrorSnippet]
	}
	err := &StatusError{StatusCode: code, Body: snippet}

	if IsTransientStatus(code) {
		return generation.Transient(provider, err)
	}
	return generation.Permanent(provider, err)
}

// ClassifyTransportError classifies an error returned by http.Client.Do.
// Caller cancellation is permanent; everything else (timeouts, resets,
// DNS failures) is transient.
func ClassifyTransportError(provider string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return generation.Permanent(provider, err)
	}
	return generation.Transient(provider, err)
}

// Do sends req with client and returns the body of a 2xx response.
// Failures come back already classified.
func Do(client *http.Client, provider string, req *http.Request) ([]byte, http.Header, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, ClassifyTransportError(provider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes+1))
	if err != nil {
		return nil, nil, ClassifyTransportError(provider, fmt.Errorf("failed to read response body: %w", err))
	}
	if len(body) > MaxBodyBytes {
		return nil, nil, generation.Permanent(provider,
			fmt.Errorf("%w: response body exceeds %d bytes", generation.ErrInvalidResponse, MaxBodyBytes))
	}

	if err := ClassifyStatus(provider, resp.StatusCode, body); err != nil {
		return nil, nil, err
	}
	return body, resp.Header, nil
}

// NewHTTPClient returns a client with the given per-request timeout.
// A zero timeout leaves requests unbounded.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// Fetcher downloads URL results over HTTP.
type Fetcher struct {
	client *http.Client
}

var _ generation.Fetcher = (*Fetcher)(nil)

// NewFetcher returns a Fetcher using client, or http.DefaultClient when nil.
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{client: client}
}

// FetchBytes implements generation.Fetcher.
func (f *Fetcher) FetchBytes(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", generation.Permanent("fetch", fmt.Errorf("invalid image URL: %w", err))
	}

	body, header, err := Do(f.client, "fetch", req)
	if err != nil {
		return nil, "", err
	}
	return body, header.Get("Content-Type"), nil
}
