package generation_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/phrazzld/meme-api/internal/generation"
)

// MockProvider is a scripted generation.Provider that counts calls.
type MockProvider struct {
	ProviderName string
	// Errors are returned by successive calls; once exhausted, Output is returned.
	Errors []error
	Output *generation.Output

	mu      sync.Mutex
	calls   int
	prompts []string
}

func (m *MockProvider) Name() string {
	if m.ProviderName == "" {
		return "mock"
	}
	return m.ProviderName
}

func (m *MockProvider) Generate(ctx context.Context, prompt string) (*generation.Output, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.calls
	m.calls++
	m.prompts = append(m.prompts, prompt)

	if idx < len(m.Errors) {
		return nil, m.Errors[idx]
	}
	return m.Output, nil
}

func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockProvider) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// MockFetcher is a scripted generation.Fetcher.
type MockFetcher struct {
	Errors   []error
	Data     []byte
	MIMEType string

	calls int
	urls  []string
}

func (m *MockFetcher) FetchBytes(ctx context.Context, url string) ([]byte, string, error) {
	idx := m.calls
	m.calls++
	m.urls = append(m.urls, url)
	if idx < len(m.Errors) {
		return nil, "", m.Errors[idx]
	}
	return m.Data, m.MIMEType, nil
}

// recordingSleeper records requested delays without waiting.
type recordingSleeper struct {
	delays []time.Duration
	err    error
}

func (s *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.delays = append(s.delays, d)
	return s.err
}

func transientErr(msg string) error {
	return generation.Transient("mock", errors.New(msg))
}

func permanentErr(msg string) error {
	return generation.Permanent("mock", errors.New(msg))
}

// jpegBytes is the start of a JPEG file.
var jpegBytes = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46, 0x49, 0x46}
