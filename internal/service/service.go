package service

import (
	"context"
	"time"

	"kv-studio/internal/model"
)

// StyleService manages one prompt-template catalog (styles or backgrounds).
type StyleService interface {
	// List returns every entry, newest first.
	List(ctx context.Context) ([]model.Style, error)

	// Create uploads the image and inserts the row.
	Create(ctx context.Context, in model.StyleInput) (*model.Style, error)

	// UpdatePrompt overwrites the prompt text.
	UpdatePrompt(ctx context.Context, id int64, prompt string) (*model.Style, error)

	// RegeneratePrompt captions the entry's image and stores the result.
	RegeneratePrompt(ctx context.Context, id int64) (*model.Style, error)

	// Delete removes the entry.
	Delete(ctx context.Context, id int64) error
}

// ProductService manages the product catalog.
type ProductService interface {
	// List returns products newest first. An empty category means all.
	List(ctx context.Context, category string) ([]model.Product, error)

	GetByID(ctx context.Context, id int64) (*model.Product, error)

	Create(ctx context.Context, in model.ProductInput) (*model.Product, error)

	// Update replaces the editable fields. The image is replaced only when
	// in.Image is set.
	Update(ctx context.Context, id int64, in model.ProductInput) (*model.Product, error)

	Delete(ctx context.Context, id int64) error
}

// WhiteProductService manages white-background product shots.
type WhiteProductService interface {
	List(ctx context.Context, category string) ([]model.WhiteProduct, error)
	Create(ctx context.Context, in model.WhiteProductInput) (*model.WhiteProduct, error)
	Delete(ctx context.Context, id int64) error
}

// HistoryService manages generated-image history.
type HistoryService interface {
	// List returns favorites first, each group newest first.
	List(ctx context.Context, userID string) ([]model.HistoryRecord, error)

	// Overview groups the history into featured, favorite and other images.
	Overview(ctx context.Context, userID string) (*model.HistoryOverview, error)

	Create(ctx context.Context, in model.HistoryInput) (*model.HistoryRecord, error)

	ToggleFavorite(ctx context.Context, id int64) (*model.HistoryRecord, error)

	// RecordDownload increments the download counter.
	RecordDownload(ctx context.Context, id int64) (*model.HistoryRecord, error)

	// Delete removes the stored artifact, then the record.
	Delete(ctx context.Context, id int64) error
}

// GenerationService validates and forwards generation requests.
type GenerationService interface {
	// Generate forwards a raw request after validation.
	Generate(ctx context.Context, req model.GenerationRequest) (*model.GenerationResult, error)

	// Compose builds a request from a style and product selection,
	// generates, and records history.
	Compose(ctx context.Context, req model.ComposeRequest) (*model.ComposeResult, error)
}

// CaptionService forwards images to the captioning service.
type CaptionService interface {
	// Caption always returns a reply. Forwarding failures are folded into
	// a failed reply with a single api_route step.
	Caption(ctx context.Context, image *model.ImageUpload) *model.CaptionResponse
}

// Generator is the generation service client.
type Generator interface {
	Generate(ctx context.Context, req model.GenerationRequest) (*model.GenerationResult, error)
}

// Captioner is the captioning service client.
type Captioner interface {
	Caption(ctx context.Context, image model.ImageUpload) (*model.CaptionResponse, error)
}

// ImageFetcher downloads an image by URL.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) (*model.ImageUpload, error)
}

// CatalogOptions carries the catalog settings shared by all entity types.
type CatalogOptions struct {
	MaxUploadBytes int64
	PurgeOnDelete  bool
	CaptionTimeout time.Duration
}
