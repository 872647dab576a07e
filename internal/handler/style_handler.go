package handler

import (
	"net/http"

	"kv-studio/internal/model"
	"kv-studio/internal/service"

	"github.com/rs/zerolog"
)

// StyleHandler serves one prompt-template catalog: styles or backgrounds.
type StyleHandler struct {
	service   service.StyleService
	maxUpload int64
	logger    zerolog.Logger
}

// NewStyleHandler creates a handler for the given catalog kind.
func NewStyleHandler(kind model.StyleKind, service service.StyleService, maxUpload int64, logger zerolog.Logger) *StyleHandler {
	return &StyleHandler{
		service:   service,
		maxUpload: maxUpload,
		logger:    logger.With().Str("handler", string(kind)).Logger(),
	}
}

// List handles GET /api/styles and /api/backgrounds.
func (h *StyleHandler) List(w http.ResponseWriter, r *http.Request) {
	styles, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, styles)
}

// Create handles the multipart POST with name, prompt and image.
func (h *StyleHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r, bodyLimit(h.maxUpload)); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	image, err := formImage(r, "image")
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	style, err := h.service.Create(r.Context(), model.StyleInput{
		Name:   r.FormValue("name"),
		Prompt: r.FormValue("prompt"),
		Image:  image,
	})
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, style)
}

type promptRequest struct {
	Prompt string `json:"prompt"`
}

// UpdatePrompt handles PUT /{id}/prompt.
func (h *StyleHandler) UpdatePrompt(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	var req promptRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	style, err := h.service.UpdatePrompt(r.Context(), id, req.Prompt)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, style)
}

// MagicPrompt handles POST /{id}/magic-prompt.
func (h *StyleHandler) MagicPrompt(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	style, err := h.service.RegeneratePrompt(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, style)
}

// Delete handles DELETE /{id}.
func (h *StyleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
