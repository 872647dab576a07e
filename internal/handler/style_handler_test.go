package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"kv-studio/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStyleHandler_Create(t *testing.T) {
	svc := new(MockStyleService)
	h := NewStyleHandler(model.KindStyle, svc, 1<<20, zerolog.Nop())

	svc.On("Create", mock.Anything, mock.MatchedBy(func(in model.StyleInput) bool {
		return in.Name == "Cafe" && in.Prompt == "{product} in a cafe" &&
			in.Image != nil && in.Image.Filename == "cafe.png" && in.Image.ContentType == "image/png" && string(in.Image.Data) == "png"
	})).Return(&model.Style{ID: 1, Name: "Cafe"}, nil)

	body, contentType := multipartBody(t, map[string]string{"name": "Cafe", "prompt": "{product} in a cafe"}, "cafe.png", []byte("png"))
	req := httptest.NewRequest(http.MethodPost, "/api/styles", body)
	req.Header.Set("Content-Type", contentType)

	w := serve(http.MethodPost, "/api/styles", h.Create, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var style model.Style
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &style))
	assert.Equal(t, int64(1), style.ID)
	svc.AssertExpectations(t)
}

func TestStyleHandler_CreateWithoutImage(t *testing.T) {
	svc := new(MockStyleService)
	h := NewStyleHandler(model.KindBackground, svc, 1<<20, zerolog.Nop())

	svc.On("Create", mock.Anything, mock.MatchedBy(func(in model.StyleInput) bool {
		return in.Image == nil
	})).Return(nil, model.ErrMissingImage)

	body, contentType := multipartBody(t, map[string]string{"name": "Sky", "prompt": "blue"}, "", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/backgrounds", body)
	req.Header.Set("Content-Type", contentType)

	w := serve(http.MethodPost, "/api/backgrounds", h.Create, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), model.ErrCodeMissingImage)
}

func TestStyleHandler_CreateTooLarge(t *testing.T) {
	svc := new(MockStyleService)
	h := NewStyleHandler(model.KindStyle, svc, 16, zerolog.Nop())

	body, contentType := multipartBody(t, map[string]string{"name": "Cafe", "prompt": "p"}, "big.png", make([]byte, 2<<20))
	req := httptest.NewRequest(http.MethodPost, "/api/styles", body)
	req.Header.Set("Content-Type", contentType)

	w := serve(http.MethodPost, "/api/styles", h.Create, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestStyleHandler_UpdatePrompt(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		body           string
		setupMock      func(*MockStyleService)
		expectedStatus int
	}{
		{
			name: "Success",
			path: "/api/styles/3/prompt",
			body: `{"prompt":"new"}`,
			setupMock: func(m *MockStyleService) {
				m.On("UpdatePrompt", mock.Anything, int64(3), "new").Return(&model.Style{ID: 3, Prompt: "new"}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Invalid JSON",
			path:           "/api/styles/3/prompt",
			body:           `{"prompt":`,
			setupMock:      func(*MockStyleService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Invalid id",
			path:           "/api/styles/abc/prompt",
			body:           `{"prompt":"new"}`,
			setupMock:      func(*MockStyleService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Not found",
			path: "/api/styles/9/prompt",
			body: `{"prompt":"new"}`,
			setupMock: func(m *MockStyleService) {
				m.On("UpdatePrompt", mock.Anything, int64(9), "new").Return(nil, model.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockStyleService)
			tt.setupMock(svc)
			h := NewStyleHandler(model.KindStyle, svc, 0, zerolog.Nop())

			req := httptest.NewRequest(http.MethodPut, tt.path, strings.NewReader(tt.body))
			w := serve(http.MethodPut, "/api/styles/{id}/prompt", h.UpdatePrompt, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestStyleHandler_MagicPrompt(t *testing.T) {
	t.Run("timeout", func(t *testing.T) {
		svc := new(MockStyleService)
		h := NewStyleHandler(model.KindStyle, svc, 0, zerolog.Nop())
		svc.On("RegeneratePrompt", mock.Anything, int64(4)).
			Return(nil, model.NewDomainError(model.ErrCodeUpstreamTimeout, "Request timed out after 60 seconds"))

		req := httptest.NewRequest(http.MethodPost, "/api/styles/4/magic-prompt", nil)
		w := serve(http.MethodPost, "/api/styles/{id}/magic-prompt", h.MagicPrompt, req)

		assert.Equal(t, http.StatusGatewayTimeout, w.Code)
		var body model.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "Request timed out after 60 seconds", body.Message)
	})

	t.Run("caption failure", func(t *testing.T) {
		svc := new(MockStyleService)
		h := NewStyleHandler(model.KindStyle, svc, 0, zerolog.Nop())
		svc.On("RegeneratePrompt", mock.Anything, int64(4)).
			Return(nil, &model.UpstreamError{Service: "caption", Message: "model unavailable"})

		req := httptest.NewRequest(http.MethodPost, "/api/styles/4/magic-prompt", nil)
		w := serve(http.MethodPost, "/api/styles/{id}/magic-prompt", h.MagicPrompt, req)

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Contains(t, w.Body.String(), "model unavailable")
	})
}

func TestStyleHandler_ListAndDelete(t *testing.T) {
	svc := new(MockStyleService)
	h := NewStyleHandler(model.KindStyle, svc, 0, zerolog.Nop())

	svc.On("List", mock.Anything).Return([]model.Style{{ID: 2}, {ID: 1}}, nil)
	svc.On("Delete", mock.Anything, int64(1)).Return(nil)
	svc.On("Delete", mock.Anything, int64(2)).Return(model.ErrNotFound)

	w := serve(http.MethodGet, "/api/styles", h.List, httptest.NewRequest(http.MethodGet, "/api/styles", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	var styles []model.Style
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &styles))
	assert.Len(t, styles, 2)

	w = serve(http.MethodDelete, "/api/styles/{id}", h.Delete, httptest.NewRequest(http.MethodDelete, "/api/styles/1", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = serve(http.MethodDelete, "/api/styles/{id}", h.Delete, httptest.NewRequest(http.MethodDelete, "/api/styles/2", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
