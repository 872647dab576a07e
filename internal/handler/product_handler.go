package handler

import (
	"net/http"

	"kv-studio/internal/model"
	"kv-studio/internal/service"

	"github.com/rs/zerolog"
)

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	service   service.ProductService
	maxUpload int64
	logger    zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, maxUpload int64, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service:   service,
		maxUpload: maxUpload,
		logger:    logger.With().Str("handler", "product").Logger(),
	}
}

// List handles GET /api/products with an optional category filter.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// GetByID handles GET /api/products/{id} requests.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	product, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// Create handles POST /api/products.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, err := h.readInput(w, r)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	product, err := h.service.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

// Update handles PUT /api/products/{id}. The image part is optional.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	in, err := h.readInput(w, r)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	product, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// Delete handles DELETE /api/products/{id}.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

func (h *ProductHandler) readInput(w http.ResponseWriter, r *http.Request) (model.ProductInput, error) {
	if err := parseForm(w, r, bodyLimit(h.maxUpload)); err != nil {
		return model.ProductInput{}, err
	}
	image, err := formImage(r, "image")
	if err != nil {
		return model.ProductInput{}, err
	}
	return model.ProductInput{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		ProductType: r.FormValue("product_type"),
		LoraPath:    r.FormValue("lora_path"),
		Image:       image,
	}, nil
}
