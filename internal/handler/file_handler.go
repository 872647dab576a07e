package handler

import (
	"net/http"

	"kv-studio/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// FileResolver maps a stored object to a file on disk.
type FileResolver interface {
	FilePath(bucket, name string) (string, error)
}

// FileHandler serves objects written by the local storage provider.
type FileHandler struct {
	files  FileResolver
	logger zerolog.Logger
}

// NewFileHandler creates a new file handler.
func NewFileHandler(files FileResolver, logger zerolog.Logger) *FileHandler {
	return &FileHandler{
		files:  files,
		logger: logger.With().Str("handler", "files").Logger(),
	}
}

// Serve handles GET /files/{bucket}/{name}.
func (h *FileHandler) Serve(w http.ResponseWriter, r *http.Request) {
	path, err := h.files.FilePath(chi.URLParam(r, "bucket"), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, r, http.StatusNotFound, model.ErrCodeNotFound, "file not found", h.logger)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeFile(w, r, path)
}
