package handler

import (
	"context"
	"net/http"

	"kv-studio/internal/model"
	"kv-studio/internal/service"

	"github.com/rs/zerolog"
)

// HistoryHandler handles generated-image history requests.
type HistoryHandler struct {
	service service.HistoryService
	logger  zerolog.Logger
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(service service.HistoryService, logger zerolog.Logger) *HistoryHandler {
	return &HistoryHandler{
		service: service,
		logger:  logger.With().Str("handler", "history").Logger(),
	}
}

// List handles GET /api/history[?user_id=].
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.List(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// Overview handles GET /api/history/overview.
func (h *HistoryHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.Overview(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

// Create handles POST /api/history.
func (h *HistoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.HistoryInput
	if err := decodeJSON(r, &in); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	record, err := h.service.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

// ToggleFavorite handles POST /api/history/{id}/favorite.
func (h *HistoryHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	h.withRecord(w, r, h.service.ToggleFavorite)
}

// Download handles POST /api/history/{id}/download.
func (h *HistoryHandler) Download(w http.ResponseWriter, r *http.Request) {
	h.withRecord(w, r, h.service.RecordDownload)
}

// Delete handles DELETE /api/history/{id}.
func (h *HistoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

func (h *HistoryHandler) withRecord(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, id int64) (*model.HistoryRecord, error),
) {
	id, err := idParam(r)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	record, err := op(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, record)
}
