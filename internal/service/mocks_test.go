package service

import (
	"context"

	"kv-studio/internal/model"

	"github.com/stretchr/testify/mock"
)

// MockStyleRepository is a mock implementation of StyleRepository.
type MockStyleRepository struct {
	mock.Mock
}

func (m *MockStyleRepository) List(ctx context.Context) ([]model.Style, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Style), args.Error(1)
}

func (m *MockStyleRepository) GetByID(ctx context.Context, id int64) (*model.Style, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Style), args.Error(1)
}

func (m *MockStyleRepository) Create(ctx context.Context, style *model.Style) error {
	args := m.Called(ctx, style)
	if args.Error(0) == nil {
		style.ID = 1
	}
	return args.Error(0)
}

func (m *MockStyleRepository) UpdatePrompt(ctx context.Context, id int64, prompt string) (*model.Style, error) {
	args := m.Called(ctx, id, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Style), args.Error(1)
}

func (m *MockStyleRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockProductRepository is a mock implementation of ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) List(ctx context.Context, category *model.Category) ([]model.Product, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *model.Product) error {
	args := m.Called(ctx, product)
	if args.Error(0) == nil {
		product.ID = 1
	}
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *model.Product) (bool, error) {
	args := m.Called(ctx, product)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockWhiteProductRepository is a mock implementation of WhiteProductRepository.
type MockWhiteProductRepository struct {
	mock.Mock
}

func (m *MockWhiteProductRepository) List(ctx context.Context, category *model.Category) ([]model.WhiteProduct, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.WhiteProduct), args.Error(1)
}

func (m *MockWhiteProductRepository) GetByID(ctx context.Context, id int64) (*model.WhiteProduct, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WhiteProduct), args.Error(1)
}

func (m *MockWhiteProductRepository) Create(ctx context.Context, product *model.WhiteProduct) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockWhiteProductRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockHistoryRepository is a mock implementation of HistoryRepository.
type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) List(ctx context.Context, userID *string) ([]model.HistoryRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.HistoryRecord), args.Error(1)
}

func (m *MockHistoryRepository) GetByID(ctx context.Context, id int64) (*model.HistoryRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.HistoryRecord), args.Error(1)
}

func (m *MockHistoryRepository) Create(ctx context.Context, record *model.HistoryRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockHistoryRepository) ToggleFavorite(ctx context.Context, id int64) (*model.HistoryRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.HistoryRecord), args.Error(1)
}

func (m *MockHistoryRepository) IncrementDownloads(ctx context.Context, id int64) (*model.HistoryRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.HistoryRecord), args.Error(1)
}

func (m *MockHistoryRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockObjectStore is a mock implementation of storage.ObjectStore.
type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) Upload(ctx context.Context, bucket, name string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, bucket, name, data, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStore) PublicURL(bucket, path string) string {
	args := m.Called(bucket, path)
	return args.String(0)
}

func (m *MockObjectStore) Remove(ctx context.Context, bucket, path string) error {
	args := m.Called(ctx, bucket, path)
	return args.Error(0)
}

// MockGenerator is a mock generation client.
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, req model.GenerationRequest) (*model.GenerationResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GenerationResult), args.Error(1)
}

// MockCaptioner is a mock captioning client.
type MockCaptioner struct {
	mock.Mock
}

func (m *MockCaptioner) Caption(ctx context.Context, image model.ImageUpload) (*model.CaptionResponse, error) {
	args := m.Called(ctx, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CaptionResponse), args.Error(1)
}

// MockFetcher is a mock image fetcher.
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Fetch(ctx context.Context, url string) (*model.ImageUpload, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ImageUpload), args.Error(1)
}

// MockLoraValidator is a mock implementation of lora.Validator.
type MockLoraValidator struct {
	mock.Mock
}

func (m *MockLoraValidator) Validate(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockLoraValidator) Names() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

func (m *MockLoraValidator) Enforced() bool {
	args := m.Called()
	return args.Bool(0)
}

func pngUpload(name string) *model.ImageUpload {
	return &model.ImageUpload{Filename: name, ContentType: "image/png", Data: []byte("\x89PNG fake")}
}
