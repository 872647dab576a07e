package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"kv-studio/internal/model"

	"github.com/rs/zerolog"
)

// CaptionClient forwards images to the captioning service.
type CaptionClient struct {
	httpClient *http.Client
	baseURL    string
	logger     zerolog.Logger
}

// NewCaptionClient creates a client for the service at baseURL. Deadlines
// come from the caller's context.
func NewCaptionClient(baseURL string, logger zerolog.Logger) *CaptionClient {
	return &CaptionClient{
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger.With().Str("component", "caption-client").Logger(),
	}
}

// Caption posts the image as the multipart field "image" to
// /generate_prompt. Any JSON reply is returned as is, whatever its status.
func (c *CaptionClient) Caption(ctx context.Context, image model.ImageUpload) (*model.CaptionResponse, error) {
	body, contentType, err := imageForm(image)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate_prompt", body)
	if err != nil {
		return nil, fmt.Errorf("failed to create caption request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)

	c.logger.Debug().Str("filename", image.Filename).Int("bytes", len(image.Data)).Msg("forwarding caption request")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error().Err(err).Msg("caption request failed")
		return nil, transportError(ctx, "caption", err)
	}
	defer resp.Body.Close()

	raw, err := readBody(resp)
	if err != nil {
		return nil, transportError(ctx, "caption", err)
	}

	var result model.CaptionResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		c.logger.Warn().Err(err).Int("status", resp.StatusCode).Msg("caption service returned non-JSON reply")
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &model.UpstreamError{
				Service: "caption",
				Status:  resp.StatusCode,
				Message: fmt.Sprintf("failed to connect to caption service (status %d)", resp.StatusCode),
			}
		}
		return nil, &model.UpstreamError{Service: "caption", Message: "caption service returned invalid JSON"}
	}

	return &result, nil
}

func imageForm(image model.ImageUpload) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	filename := image.Filename
	if filename == "" {
		filename = "image"
	}
	contentType := image.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(image.Data)
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, filename))
	header.Set("Content-Type", contentType)

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create multipart part: %w", err)
	}
	if _, err := part.Write(image.Data); err != nil {
		return nil, "", fmt.Errorf("failed to write image part: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}
