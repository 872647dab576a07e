package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"kv-studio/internal/model"

	"github.com/rs/zerolog"
)

// GenerationClient forwards requests to the image generation service.
// Generation can take minutes, so the client has no timeout of its own;
// the request context bounds it.
type GenerationClient struct {
	httpClient *http.Client
	baseURL    string
	baseModel  string
	logger     zerolog.Logger
}

// NewGenerationClient creates a client for the service at baseURL.
func NewGenerationClient(baseURL, baseModel string, logger zerolog.Logger) *GenerationClient {
	return &GenerationClient{
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(baseURL, "/"),
		baseModel:  baseModel,
		logger:     logger.With().Str("component", "generation-client").Logger(),
	}
}

// Generate posts the request to /generate_flux_lora and parses the reply.
func (c *GenerationClient) Generate(ctx context.Context, req model.GenerationRequest) (*model.GenerationResult, error) {
	payload, err := json.Marshal(model.UpstreamGenerationPayload{
		Width:          req.Width,
		Height:         req.Height,
		ModelName:      c.baseModel,
		LoraName:       req.LoraName,
		PositivePrompt: req.PositivePrompt,
		NegativePrompt: req.NegativePrompt,
		BatchSize:      req.BatchSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode generation payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate_flux_lora", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create generation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	c.logger.Info().
		Str("lora_name", req.LoraName).
		Int("width", req.Width).
		Int("height", req.Height).
		Int("batch_size", req.BatchSize).
		Msg("forwarding generation request")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error().Err(err).Msg("generation request failed")
		return nil, transportError(ctx, "generation", err)
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		return nil, transportError(ctx, "generation", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := model.UpstreamErrorMessage(body, fmt.Sprintf("upstream returned status %d", resp.StatusCode))
		c.logger.Warn().Int("status", resp.StatusCode).Str("error", msg).Msg("generation service returned an error")
		return nil, &model.UpstreamError{Service: "generation", Status: resp.StatusCode, Message: msg}
	}

	result, err := model.ParseGenerationResult(body)
	if err != nil {
		c.logger.Warn().Err(err).Msg("generation response rejected")
		return nil, err
	}

	c.logger.Info().
		Str("shape", string(result.Shape)).
		Int("images", len(result.Images)).
		Msg("generation completed")

	return result, nil
}
