package handler

import (
	"net/http"

	"kv-studio/internal/model"
	"kv-studio/internal/service"

	"github.com/rs/zerolog"
)

// GenerationHandler exposes the generation forwarder.
type GenerationHandler struct {
	service service.GenerationService
	logger  zerolog.Logger
}

// NewGenerationHandler creates a new generation handler.
func NewGenerationHandler(service service.GenerationService, logger zerolog.Logger) *GenerationHandler {
	return &GenerationHandler{
		service: service,
		logger:  logger.With().Str("handler", "generation").Logger(),
	}
}

// Generate handles the pass-through endpoints. The upstream JSON is
// returned unchanged.
func (h *GenerationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req model.GenerationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	result, err := h.service.Generate(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	if len(result.Raw) == 0 {
		writeJSON(w, http.StatusOK, result)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Raw)
}

// Compose handles POST /api/kv/generate.
func (h *GenerationHandler) Compose(w http.ResponseWriter, r *http.Request) {
	var req model.ComposeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	result, err := h.service.Compose(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
