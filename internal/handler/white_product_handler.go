package handler

import (
	"net/http"

	"kv-studio/internal/model"
	"kv-studio/internal/service"

	"github.com/rs/zerolog"
)

// WhiteProductHandler handles white-background product requests.
type WhiteProductHandler struct {
	service   service.WhiteProductService
	maxUpload int64
	logger    zerolog.Logger
}

// NewWhiteProductHandler creates a new white product handler.
func NewWhiteProductHandler(service service.WhiteProductService, maxUpload int64, logger zerolog.Logger) *WhiteProductHandler {
	return &WhiteProductHandler{
		service:   service,
		maxUpload: maxUpload,
		logger:    logger.With().Str("handler", "white-product").Logger(),
	}
}

func (h *WhiteProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *WhiteProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r, bodyLimit(h.maxUpload)); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	image, err := formImage(r, "image")
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	product, err := h.service.Create(r.Context(), model.WhiteProductInput{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		Image:       image,
	})
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

func (h *WhiteProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
