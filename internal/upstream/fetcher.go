package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"kv-studio/internal/model"

	"github.com/rs/zerolog"
)

// ImageFetcher downloads catalog images so they can be re-captioned.
type ImageFetcher struct {
	httpClient *http.Client
	maxBytes   int64
	logger     zerolog.Logger
}

// NewImageFetcher creates a fetcher with the given timeout and size cap.
func NewImageFetcher(timeout time.Duration, maxBytes int64, logger zerolog.Logger) *ImageFetcher {
	return &ImageFetcher{
		httpClient: &http.Client{Timeout: timeout},
		maxBytes:   maxBytes,
		logger:     logger.With().Str("component", "image-fetcher").Logger(),
	}
}

// Fetch downloads the image at rawURL.
func (f *ImageFetcher) Fetch(ctx context.Context, rawURL string) (*model.ImageUpload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create image request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		f.logger.Error().Err(err).Str("url", rawURL).Msg("failed to fetch image")
		return nil, transportError(ctx, "image", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.UpstreamError{
			Service: "image",
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("failed to fetch image (status %d)", resp.StatusCode),
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, transportError(ctx, "image", err)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, model.ErrImageTooLarge
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	return &model.ImageUpload{
		Filename:    filenameFromURL(rawURL),
		ContentType: contentType,
		Data:        data,
	}, nil
}

func filenameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "image"
	}
	name := path.Base(u.Path)
	if name == "/" || name == "." || name == "" {
		return "image"
	}
	if unescaped, err := url.PathUnescape(name); err == nil {
		return unescaped
	}
	return name
}
