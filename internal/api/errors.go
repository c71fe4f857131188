package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/meme-api/internal/config"
	"github.com/phrazzld/meme-api/internal/generation"
)

// Client-facing error messages.
const (
	MsgTopicRequired    = "Topic is required."
	MsgGenerationFailed = "Failed to generate meme. Please try again later."
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, generation.ErrEmptyTopic):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns the message a client may see for err.
// Provider failures of any kind collapse into one generic message; only a
// missing secret is named, so the operator knows which variable to set.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var cfgErr *config.ConfigurationError
	switch {
	case errors.Is(err, generation.ErrEmptyTopic):
		return MsgTopicRequired
	case errors.As(err, &cfgErr):
		return cfgErr.Error()
	default:
		return MsgGenerationFailed
	}
}
