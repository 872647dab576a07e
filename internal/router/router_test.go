package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"kv-studio/internal/handler"
	"kv-studio/internal/middleware"
	"kv-studio/internal/model"
	"kv-studio/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "router-test-key"

// stubStyles answers List and leaves every other method unimplemented.
type stubStyles struct {
	service.StyleService
	kind model.StyleKind
}

func (s stubStyles) List(context.Context) ([]model.Style, error) {
	return []model.Style{{ID: 1, Name: string(s.kind)}}, nil
}

func newTestRouter() http.Handler {
	logger := zerolog.Nop()
	return New(Handlers{
		Styles:        handler.NewStyleHandler(model.KindStyle, stubStyles{kind: model.KindStyle}, 1<<20, logger),
		Backgrounds:   handler.NewStyleHandler(model.KindBackground, stubStyles{kind: model.KindBackground}, 1<<20, logger),
		Products:      handler.NewProductHandler(nil, 1<<20, logger),
		WhiteProducts: handler.NewWhiteProductHandler(nil, 1<<20, logger),
		Generation:    handler.NewGenerationHandler(nil, logger),
		Caption:       handler.NewCaptionHandler(nil, 1<<20, logger),
		History:       handler.NewHistoryHandler(nil, logger),
	}, testKey, logger)
}

func TestRouter(t *testing.T) {
	r := newTestRouter()

	tests := []struct {
		name       string
		method     string
		path       string
		apiKey     string
		wantStatus int
	}{
		{"health is public", http.MethodGet, "/health", "", http.StatusOK},
		{"api requires key", http.MethodGet, "/api/styles", "", http.StatusUnauthorized},
		{"wrong key", http.MethodGet, "/api/styles", "nope", http.StatusUnauthorized},
		{"preflight", http.MethodOptions, "/api/styles", "", http.StatusNoContent},
		{"styles list", http.MethodGet, "/api/styles", testKey, http.StatusOK},
		{"backgrounds list", http.MethodGet, "/api/backgrounds", testKey, http.StatusOK},
		{"unknown route", http.MethodGet, "/api/orders", testKey, http.StatusNotFound},
		{"wrong method", http.MethodPatch, "/api/styles", testKey, http.StatusMethodNotAllowed},
		{"files not mounted", http.MethodGet, "/files/styles/a.png", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.apiKey != "" {
				req.Header.Set("X-API-Key", tt.apiKey)
			}
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
		})
	}
}

func TestRouter_StyleCatalogsAreSeparate(t *testing.T) {
	r := newTestRouter()

	for path, want := range map[string]string{
		"/api/styles":      string(model.KindStyle),
		"/api/backgrounds": string(model.KindBackground),
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("X-API-Key", testKey)
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var styles []model.Style
		require.NoError(t, json.NewDecoder(w.Body).Decode(&styles))
		require.Len(t, styles, 1)
		assert.Equal(t, want, styles[0].Name, path)
	}
}
