package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"kv-studio/internal/middleware"
	"kv-studio/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// multipartMemory is how much of a multipart body is held in memory
// before spilling to temporary files.
const multipartMemory = 32 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response carrying the request's correlation id.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, logger zerolog.Logger) {
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Str("code", code).Str("error", message).Int("status", status).Msg("handler error")

	writeJSON(w, status, model.ErrorResponse{
		Error:         code,
		Message:       message,
		CorrelationID: middleware.RequestIDFromContext(r.Context()),
	})
}

// statusForCode maps a domain error code to its HTTP status.
func statusForCode(code string) int {
	switch code {
	case model.ErrCodeInvalidJSON, model.ErrCodeValidation, model.ErrCodeMissingImage,
		model.ErrCodeLoraNotAllowed, model.ErrCodeIncompleteSelection:
		return http.StatusBadRequest
	case model.ErrCodeNotFound:
		return http.StatusNotFound
	case model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	case model.ErrCodeUpstreamUnavailable, model.ErrCodeStorage, model.ErrCodeUpstream:
		return http.StatusBadGateway
	case model.ErrCodeUpstreamTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError classifies err and writes the matching response.
// Unclassified errors are logged in full and reported generically.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	var upstreamErr *model.UpstreamError
	if errors.As(err, &upstreamErr) {
		writeError(w, r, upstreamErr.HTTPStatus(), model.ErrCodeUpstream, upstreamErr.Message, logger)
		return
	}

	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		if domainErr.Code == model.ErrCodeStorage || domainErr.Code == model.ErrCodeUpstreamUnavailable {
			logger.Error().Err(err).Msg("dependency failure")
		}
		writeError(w, r, statusForCode(domainErr.Code), domainErr.Code, domainErr.Message, logger)
		return
	}

	if errors.Is(err, context.DeadlineExceeded) {
		writeError(w, r, http.StatusGatewayTimeout, model.ErrCodeUpstreamTimeout, "request timed out", logger)
		return
	}

	logger.Error().Err(err).Str("path", r.URL.Path).Msg("unhandled error")
	writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", logger)
}

// decodeJSON decodes the request body into v.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return model.NewDomainError(model.ErrCodeInvalidJSON, "invalid request body")
	}
	return nil
}

// idParam parses the {id} URL parameter.
func idParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, model.Validationf("invalid id %q", raw)
	}
	return id, nil
}

// parseForm parses a multipart (or urlencoded) body capped at maxBody bytes.
func parseForm(w http.ResponseWriter, r *http.Request, maxBody int64) error {
	if maxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	}
	err := r.ParseMultipartForm(multipartMemory)
	if err == nil || errors.Is(err, http.ErrNotMultipart) {
		return nil
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
		return model.ErrImageTooLarge
	}
	return model.Validationf("invalid form body")
}

// formImage reads the optional file field. It returns nil, nil when the
// field is absent.
func formImage(r *http.Request, field string) (*model.ImageUpload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, model.Validationf("invalid %s upload", field)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	return &model.ImageUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// bodyLimit is the multipart cap for one image plus form fields.
func bodyLimit(maxUpload int64) int64 {
	if maxUpload <= 0 {
		return 0
	}
	return maxUpload + 1<<20
}
