// Package upstream holds HTTP clients for the external generation and
// captioning services.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"kv-studio/internal/model"
)

// maxResponseBytes caps how much of an upstream reply is read.
const maxResponseBytes = 64 << 20

func readBody(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// transportError classifies a failed round trip. Cancellation and
// deadlines are passed through so callers can tell them apart.
func transportError(ctx context.Context, service string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s request: %w", service, ctxErr)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s request: %w", service, context.DeadlineExceeded)
	}
	return &unavailableError{
		DomainError: model.NewDomainError(model.ErrCodeUpstreamUnavailable, fmt.Sprintf("failed to connect to %s service", service)),
		cause:       err,
	}
}

// unavailableError keeps the transport cause for logs while reporting the
// user-facing message.
type unavailableError struct {
	*model.DomainError
	cause error
}

func (e *unavailableError) Unwrap() []error {
	return []error{e.DomainError, e.cause}
}
