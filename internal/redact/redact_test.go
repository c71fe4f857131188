package redact_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/phrazzld/meme-api/internal/redact"
	"github.com/stretchr/testify/assert"
)

func TestRedactString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "no sensitive data",
			input:    "image provider returned status 503",
			expected: "image provider returned status 503",
		},
		{
			name:     "google api key in query",
			input:    "GET https://generativelanguage.googleapis.com/v1beta/models?key=AIzaSyA1234567890abcdefghijk: 400",
			expected: "GET https://generativelanguage.googleapis.com/v1beta/models?key=[REDACTED_KEY]: 400",
		},
		{
			name:     "plain query credential",
			input:    "request to https://example.com/gen?key=plainsecret&alt=json failed",
			expected: "request to https://example.com/gen?key=[REDACTED_KEY]&alt=json failed",
		},
		{
			name:     "replicate token in header",
			input:    "Authorization: Bearer r8_abcdefghij1234",
			expected: "Authorization: Bearer [REDACTED_KEY]",
		},
		{
			name:     "generic bearer token",
			input:    "Authorization: Bearer sometoken12345",
			expected: "Authorization: [REDACTED_CREDENTIAL]",
		},
		{
			name:     "hugging face token",
			input:    "hf_ABCDEFGHIJKLMN is invalid",
			expected: "[REDACTED_KEY] is invalid",
		},
		{
			name:     "API key assignment",
			input:    "Using api_key=abcdef1234567890ghijklmnop for authentication",
			expected: "Using [REDACTED_KEY] for authentication",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, redact.String(tt.input))
		})
	}
}

func TestRedactError(t *testing.T) {
	assert.Equal(t, "", redact.Error(nil))

	err := fmt.Errorf("replicate: %w", errors.New("401 Unauthorized for token r8_abcdefghij1234"))
	assert.Equal(t, "replicate: 401 Unauthorized for token [REDACTED_KEY]", redact.Error(err))
}
