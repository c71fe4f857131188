package api

import (
	"strings"
)

// GenerateMemeRequest is the body accepted by POST /generate.
type GenerateMemeRequest struct {
	Topic string `json:"topic" validate:"required"`
}

// Normalize trims surrounding whitespace from the topic so that a blank
// topic fails the required check.
func (r *GenerateMemeRequest) Normalize() {
	r.Topic = strings.TrimSpace(r.Topic)
}

// GenerateMemeResponse is the success body of POST /generate.
type GenerateMemeResponse struct {
	ImageData string `json:"imageData"`
	Caption   string `json:"caption,omitempty"`
}
