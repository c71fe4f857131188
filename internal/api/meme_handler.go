package api

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/phrazzld/meme-api/internal/api/shared"
	"github.com/phrazzld/meme-api/internal/config"
	"github.com/phrazzld/meme-api/internal/generation"
	"github.com/phrazzld/meme-api/internal/platform/logger"
)

// GeneratorFactory builds a Generator from the provider secrets. It is called
// once per request, after the required secrets have been checked.
type GeneratorFactory func(ctx context.Context, secrets config.Secrets) (generation.Generator, error)

// MemeHandler handles meme generation requests.
type MemeHandler struct {
	secrets  config.Secrets
	required []string
	factory  GeneratorFactory
}

// NewMemeHandler creates a new MemeHandler. required lists the secret names
// that must be present in secrets before factory is invoked.
func NewMemeHandler(secrets config.Secrets, required []string, factory GeneratorFactory) *MemeHandler {
	return &MemeHandler{
		secrets:  secrets,
		required: required,
		factory:  factory,
	}
}

// Generate handles /generate.
func (h *MemeHandler) Generate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		shared.RespondWithError(w, r, http.StatusMethodNotAllowed,
			fmt.Sprintf("Method %s Not Allowed", r.Method))
		return
	}

	var req GenerateMemeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, MsgTopicRequired, err)
		return
	}
	req.Normalize()
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, MsgTopicRequired, err)
		return
	}

	if err := h.secrets.Require(h.required...); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, GetSafeErrorMessage(err), err)
		return
	}

	generator, err := h.factory(r.Context(), h.secrets)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	result, err := generator.Generate(r.Context(), req.Topic)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("meme generated",
		"topic_length", len(req.Topic),
		"image_bytes", len(result.ImageData),
		"mime_type", result.MIMEType,
		"has_caption", result.Caption != "")

	shared.RespondWithJSON(w, r, http.StatusOK, GenerateMemeResponse{
		ImageData: base64.StdEncoding.EncodeToString(result.ImageData),
		Caption:   result.Caption,
	})
}
