package handler

import (
	"net/http"

	"kv-studio/internal/model"
	"kv-studio/internal/service"

	"github.com/rs/zerolog"
)

// CaptionHandler exposes the captioning forwarder. Replies always use the
// captioning service's own shape, errors included.
type CaptionHandler struct {
	service   service.CaptionService
	maxUpload int64
	logger    zerolog.Logger
}

// NewCaptionHandler creates a new caption handler.
func NewCaptionHandler(service service.CaptionService, maxUpload int64, logger zerolog.Logger) *CaptionHandler {
	return &CaptionHandler{
		service:   service,
		maxUpload: maxUpload,
		logger:    logger.With().Str("handler", "caption").Logger(),
	}
}

// GeneratePrompt handles POST /api/vlm/generate_prompt.
func (h *CaptionHandler) GeneratePrompt(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r, bodyLimit(h.maxUpload)); err != nil {
		writeJSON(w, http.StatusBadRequest, model.CaptionFailure(err.Error()))
		return
	}
	image, err := formImage(r, "image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, model.CaptionFailure(err.Error()))
		return
	}
	if image == nil {
		writeJSON(w, http.StatusBadRequest, model.CaptionFailure(model.ErrMissingImage.Message))
		return
	}

	resp := h.service.Caption(r.Context(), image)
	status := http.StatusOK
	if !resp.Success {
		status = http.StatusInternalServerError
		h.logger.Warn().Str("error", resp.ErrorMessage()).Msg("caption request failed")
	}
	writeJSON(w, status, resp)
}
