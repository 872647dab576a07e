package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"kv-studio/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProductHandler_List(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		category       string
		mockReturn     []model.Product
		mockError      error
		expectedStatus int
	}{
		{
			name:           "All products",
			query:          "",
			category:       "",
			mockReturn:     []model.Product{{ID: 1}, {ID: 2}},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Category filter",
			query:          "?category=coffee",
			category:       "coffee",
			mockReturn:     []model.Product{{ID: 1}},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Invalid category",
			query:          "?category=tea",
			category:       "tea",
			mockError:      model.Validationf("invalid category"),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Service error",
			query:          "",
			category:       "",
			mockError:      errors.New("database error"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockProductService)
			h := NewProductHandler(svc, 0, zerolog.Nop())

			if tt.mockError != nil {
				svc.On("List", mock.Anything, tt.category).Return(nil, tt.mockError)
			} else {
				svc.On("List", mock.Anything, tt.category).Return(tt.mockReturn, nil)
			}

			req := httptest.NewRequest(http.MethodGet, "/api/products"+tt.query, nil)
			w := serve(http.MethodGet, "/api/products", h.List, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				var products []model.Product
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
				assert.Len(t, products, len(tt.mockReturn))
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestProductHandler_GetByID(t *testing.T) {
	svc := new(MockProductService)
	h := NewProductHandler(svc, 0, zerolog.Nop())

	svc.On("GetByID", mock.Anything, int64(1)).Return(&model.Product{ID: 1, Name: "Mocha"}, nil)
	svc.On("GetByID", mock.Anything, int64(2)).Return(nil, model.ErrNotFound)

	w := serve(http.MethodGet, "/api/products/{id}", h.GetByID, httptest.NewRequest(http.MethodGet, "/api/products/1", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Mocha"`)

	w = serve(http.MethodGet, "/api/products/{id}", h.GetByID, httptest.NewRequest(http.MethodGet, "/api/products/2", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductHandler_CreateAndUpdate(t *testing.T) {
	fields := map[string]string{
		"name":         "Mocha",
		"description":  "Chocolate coffee",
		"category":     "coffee",
		"product_type": "drink",
		"lora_path":    "NCMocha.safetensors",
	}

	t.Run("create", func(t *testing.T) {
		svc := new(MockProductService)
		h := NewProductHandler(svc, 1<<20, zerolog.Nop())

		svc.On("Create", mock.Anything, mock.MatchedBy(func(in model.ProductInput) bool {
			return in.Name == "Mocha" && in.Category == "coffee" && in.LoraPath == "NCMocha.safetensors" && in.Image != nil
		})).Return(&model.Product{ID: 5}, nil)

		body, contentType := multipartBody(t, fields, "mocha.png", []byte("png"))
		req := httptest.NewRequest(http.MethodPost, "/api/products", body)
		req.Header.Set("Content-Type", contentType)

		w := serve(http.MethodPost, "/api/products", h.Create, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("update without image", func(t *testing.T) {
		svc := new(MockProductService)
		h := NewProductHandler(svc, 1<<20, zerolog.Nop())

		svc.On("Update", mock.Anything, int64(5), mock.MatchedBy(func(in model.ProductInput) bool {
			return in.Name == "Mocha" && in.Image == nil
		})).Return(&model.Product{ID: 5}, nil)

		body, contentType := multipartBody(t, fields, "", nil)
		req := httptest.NewRequest(http.MethodPut, "/api/products/5", body)
		req.Header.Set("Content-Type", contentType)

		w := serve(http.MethodPut, "/api/products/{id}", h.Update, req)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("storage failure", func(t *testing.T) {
		svc := new(MockProductService)
		h := NewProductHandler(svc, 1<<20, zerolog.Nop())

		svc.On("Create", mock.Anything, mock.Anything).Return(nil, errors.Join(model.ErrStorage, errors.New("denied")))

		body, contentType := multipartBody(t, fields, "mocha.png", []byte("png"))
		req := httptest.NewRequest(http.MethodPost, "/api/products", body)
		req.Header.Set("Content-Type", contentType)

		w := serve(http.MethodPost, "/api/products", h.Create, req)

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Contains(t, w.Body.String(), model.ErrCodeStorage)
	})
}

func TestProductHandler_Delete(t *testing.T) {
	svc := new(MockProductService)
	h := NewProductHandler(svc, 0, zerolog.Nop())
	svc.On("Delete", mock.Anything, int64(3)).Return(nil)

	w := serve(http.MethodDelete, "/api/products/{id}", h.Delete, httptest.NewRequest(http.MethodDelete, "/api/products/3", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
}
