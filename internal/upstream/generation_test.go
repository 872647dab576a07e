package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kv-studio/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validGenerationRequest() model.GenerationRequest {
	return model.GenerationRequest{
		Width:          1024,
		Height:         1024,
		LoraName:       "NCMocha.safetensors",
		PositivePrompt: "a mocha on a marble table",
		NegativePrompt: "blurry",
		BatchSize:      2,
	}
}

func TestGenerationClient_Generate_Success(t *testing.T) {
	var received model.UpstreamGenerationPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/generate_flux_lora", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"9": [{"image_url": "https://gpu/out/1.png", "seed": 11}]}`))
	}))
	defer server.Close()

	client := NewGenerationClient(server.URL+"/", "flux1-dev-Q4_0.gguf", zerolog.Nop())

	result, err := client.Generate(context.Background(), validGenerationRequest())
	require.NoError(t, err)

	assert.Equal(t, model.UpstreamGenerationPayload{
		Width:          1024,
		Height:         1024,
		ModelName:      "flux1-dev-Q4_0.gguf",
		LoraName:       "NCMocha.safetensors",
		PositivePrompt: "a mocha on a marble table",
		NegativePrompt: "blurry",
		BatchSize:      2,
	}, received)
	assert.Equal(t, model.ShapeNodeKeyed, result.Shape)
	require.Len(t, result.Images, 1)
	assert.Equal(t, "https://gpu/out/1.png", result.Images[0].ImageURL)
}

func TestGenerationClient_Generate_UpstreamErrors(t *testing.T) {
	tests := []struct {
		name            string
		status          int
		body            string
		expectedStatus  int
		expectedMessage string
	}{
		{
			name:            "JSON error field",
			status:          http.StatusBadRequest,
			body:            `{"error": "LoRA file missing on GPU host"}`,
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "LoRA file missing on GPU host",
		},
		{
			name:            "Raw text body",
			status:          http.StatusInternalServerError,
			body:            "CUDA out of memory",
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: "CUDA out of memory",
		},
		{
			name:            "Empty body",
			status:          http.StatusServiceUnavailable,
			body:            "",
			expectedStatus:  http.StatusServiceUnavailable,
			expectedMessage: "upstream returned status 503",
		},
		{
			name:            "Success false on 200",
			status:          http.StatusOK,
			body:            `{"success": false, "error": "queue full"}`,
			expectedStatus:  http.StatusBadGateway,
			expectedMessage: "queue full",
		},
		{
			name:            "Unrecognised shape",
			status:          http.StatusOK,
			body:            `{"status": "ok"}`,
			expectedStatus:  http.StatusBadGateway,
			expectedMessage: "generation service returned an unrecognised response shape",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewGenerationClient(server.URL, "flux1-dev-Q4_0.gguf", zerolog.Nop())

			result, err := client.Generate(context.Background(), validGenerationRequest())
			require.Error(t, err)
			assert.Nil(t, result)

			var upstreamErr *model.UpstreamError
			require.True(t, errors.As(err, &upstreamErr))
			assert.Equal(t, tt.expectedStatus, upstreamErr.HTTPStatus())
			assert.Equal(t, tt.expectedMessage, upstreamErr.Message)
		})
	}
}

func TestGenerationClient_Generate_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewGenerationClient(url, "flux1-dev-Q4_0.gguf", zerolog.Nop())

	_, err := client.Generate(context.Background(), validGenerationRequest())
	require.Error(t, err)

	var domainErr *model.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, model.ErrCodeUpstreamUnavailable, domainErr.Code)
	assert.Equal(t, "failed to connect to generation service", domainErr.Message)
	assert.ErrorIs(t, err, model.ErrUpstreamUnavailable)
}

func TestGenerationClient_Generate_ContextCancelled(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewGenerationClient(server.URL, "flux1-dev-Q4_0.gguf", zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Generate(ctx, validGenerationRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
