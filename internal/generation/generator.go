package generation

import (
	"context"
)

// Output is what a provider returns for one prompt: either inline bytes or a
// URL that still has to be fetched.
type Output struct {
	Data     []byte
	URL      string
	MIMEType string
}

// Provider is the single capability every generation backend exposes.
// Text providers return the generated text as Data.
//
// Implementations classify their failures by returning *TransientError or
// *PermanentError; unclassified errors are treated as permanent.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (*Output, error)
}

// Fetcher downloads the bytes behind a URL result.
// It returns the body and the reported content type.
type Fetcher interface {
	FetchBytes(ctx context.Context, url string) ([]byte, string, error)
}

// Result is a generated meme.
type Result struct {
	ImageData []byte
	MIMEType  string
	Caption   string
}

// Generator defines the interface for producing a meme from a topic.
// It is the boundary between the HTTP layer and the providers.
type Generator interface {
	Generate(ctx context.Context, topic string) (*Result, error)
}
