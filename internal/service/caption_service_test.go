package service

import (
	"context"
	"errors"
	"testing"

	"kv-studio/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptionService_Caption(t *testing.T) {
	ctx := context.Background()
	image := pngUpload("scene.png")

	tests := []struct {
		name          string
		image         *model.ImageUpload
		setupMock     func(*MockCaptioner)
		expectSuccess bool
		expectError   string
	}{
		{
			name:  "passes the reply through",
			image: image,
			setupMock: func(m *MockCaptioner) {
				m.On("Caption", ctx, *image).Return(&model.CaptionResponse{Success: true, Prompt: "[a kitchen]"}, nil)
			},
			expectSuccess: true,
		},
		{
			name:  "upstream failure is passed through",
			image: image,
			setupMock: func(m *MockCaptioner) {
				m.On("Caption", ctx, *image).Return(&model.CaptionResponse{Success: false, Error: "model unavailable"}, nil)
			},
			expectError: "model unavailable",
		},
		{
			name:  "transport failure becomes an api_route step",
			image: image,
			setupMock: func(m *MockCaptioner) {
				m.On("Caption", ctx, *image).Return(nil, errors.New("failed to connect to caption service"))
			},
			expectError: "failed to connect to caption service",
		},
		{
			name:          "missing image",
			image:         nil,
			setupMock:     func(*MockCaptioner) {},
			expectError:   model.ErrMissingImage.Message,
			expectSuccess: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captioner := new(MockCaptioner)
			tt.setupMock(captioner)
			svc := NewCaptionService(captioner, 1<<20, zerolog.Nop())

			resp := svc.Caption(ctx, tt.image)

			require.NotNil(t, resp)
			assert.Equal(t, tt.expectSuccess, resp.Success)
			if !tt.expectSuccess {
				assert.Equal(t, tt.expectError, resp.ErrorMessage())
			}
			captioner.AssertExpectations(t)
		})
	}
}
