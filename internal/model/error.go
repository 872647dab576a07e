package model

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON         = "INVALID_JSON"
	ErrCodeValidation          = "VALIDATION_FAILED"
	ErrCodeMissingImage        = "MISSING_IMAGE"
	ErrCodeLoraNotAllowed      = "LORA_NOT_ALLOWED"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeIncompleteSelection = "INCOMPLETE_SELECTION"
	ErrCodeUpstream            = "UPSTREAM_ERROR"
	ErrCodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	ErrCodeUpstreamTimeout     = "UPSTREAM_TIMEOUT"
	ErrCodeStorage             = "STORAGE_FAILED"
	ErrCodeUnauthorised        = "UNAUTHORIZED"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code so wrapped copies with a different
// message still satisfy errors.Is against the sentinel values below.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Validationf creates a VALIDATION_FAILED error with a formatted message.
func Validationf(format string, args ...any) *DomainError {
	return NewDomainError(ErrCodeValidation, fmt.Sprintf(format, args...))
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError(ErrCodeNotFound, "Resource not found")
	ErrMissingImage        = NewDomainError(ErrCodeMissingImage, "An image file is required")
	ErrUnsupportedImage    = NewDomainError(ErrCodeMissingImage, "Only JPG and PNG files are allowed")
	ErrImageTooLarge       = NewDomainError(ErrCodeMissingImage, "Image file is too large")
	ErrLoraNotAllowed      = NewDomainError(ErrCodeLoraNotAllowed, "LoRA model is not in the allowed list")
	ErrIncompleteSelection = NewDomainError(ErrCodeIncompleteSelection, "A style and a product with images must be selected")
	ErrUpstreamUnavailable = NewDomainError(ErrCodeUpstreamUnavailable, "Failed to connect to upstream service")
	ErrUpstreamTimeout     = NewDomainError(ErrCodeUpstreamTimeout, "Upstream request timed out")
	ErrStorage             = NewDomainError(ErrCodeStorage, "Failed to store image")
)

// UpstreamError is a non-success reply from an external service. Message
// is whatever could be extracted from the reply body.
type UpstreamError struct {
	Service string
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return e.Message
}

// HTTPStatus returns the status to relay to the caller. Upstream replies
// below 400 that still count as failures (e.g. success:false with 200)
// are reported as 502.
func (e *UpstreamError) HTTPStatus() int {
	if e.Status < http.StatusBadRequest {
		return http.StatusBadGateway
	}
	return e.Status
}
