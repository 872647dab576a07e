package repository

import (
	"context"

	"kv-studio/internal/model"
)

// StyleRepository defines data access for prompt-template catalogs. One
// instance serves one table (kv_styles or backgrounds).
type StyleRepository interface {
	// List returns every row, newest first.
	List(ctx context.Context) ([]model.Style, error)

	// GetByID returns nil, nil when the row does not exist.
	GetByID(ctx context.Context, id int64) (*model.Style, error)

	// Create inserts the row and fills in ID and CreatedAt.
	Create(ctx context.Context, style *model.Style) error

	// UpdatePrompt overwrites the prompt. Returns nil, nil when not found.
	UpdatePrompt(ctx context.Context, id int64, prompt string) (*model.Style, error)

	// Delete removes the row and reports whether it existed.
	Delete(ctx context.Context, id int64) (bool, error)
}

// ProductRepository defines data access for products.
type ProductRepository interface {
	// List returns products newest first, optionally filtered by category.
	List(ctx context.Context, category *model.Category) ([]model.Product, error)

	// GetByID returns nil, nil when the product does not exist.
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// Create inserts the product and fills in ID and CreatedAt.
	Create(ctx context.Context, product *model.Product) error

	// Update replaces the editable fields. Returns false when not found.
	Update(ctx context.Context, product *model.Product) (bool, error)

	// Delete removes the product and reports whether it existed.
	Delete(ctx context.Context, id int64) (bool, error)
}

// WhiteProductRepository defines data access for white-background products.
type WhiteProductRepository interface {
	List(ctx context.Context, category *model.Category) ([]model.WhiteProduct, error)
	GetByID(ctx context.Context, id int64) (*model.WhiteProduct, error)
	Create(ctx context.Context, product *model.WhiteProduct) error
	Delete(ctx context.Context, id int64) (bool, error)
}

// HistoryRepository defines data access for generated-image history.
type HistoryRepository interface {
	// List returns favorites first, each group newest first. A non-nil
	// userID restricts the result to that user.
	List(ctx context.Context, userID *string) ([]model.HistoryRecord, error)

	// GetByID returns nil, nil when the record does not exist.
	GetByID(ctx context.Context, id int64) (*model.HistoryRecord, error)

	// Create inserts the record and fills in the generated columns.
	Create(ctx context.Context, record *model.HistoryRecord) error

	// ToggleFavorite flips is_favorite in place. Returns nil, nil when not found.
	ToggleFavorite(ctx context.Context, id int64) (*model.HistoryRecord, error)

	// IncrementDownloads bumps download_count. Returns nil, nil when not found.
	IncrementDownloads(ctx context.Context, id int64) (*model.HistoryRecord, error)

	// Delete removes the record and reports whether it existed.
	Delete(ctx context.Context, id int64) (bool, error)
}
