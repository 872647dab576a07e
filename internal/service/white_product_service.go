package service

import (
	"context"
	"fmt"
	"strings"

	"kv-studio/internal/model"
	"kv-studio/internal/repository"
	"kv-studio/internal/storage"

	"github.com/rs/zerolog"
)

type whiteProductService struct {
	repo   repository.WhiteProductRepository
	images bucketStore
	opts   CatalogOptions
	logger zerolog.Logger
}

// NewWhiteProductService creates a new white product service.
func NewWhiteProductService(repo repository.WhiteProductRepository, store storage.ObjectStore, opts CatalogOptions, logger zerolog.Logger) WhiteProductService {
	logger = logger.With().Str("service", "white-product").Logger()
	return &whiteProductService{
		repo:   repo,
		images: bucketStore{store: store, bucket: storage.BucketWhiteProducts, logger: logger},
		opts:   opts,
		logger: logger,
	}
}

func (s *whiteProductService) List(ctx context.Context, category string) ([]model.WhiteProduct, error) {
	filter, err := parseCategoryFilter(category)
	if err != nil {
		return nil, err
	}

	products, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list white products")
		return nil, fmt.Errorf("failed to list white products: %w", err)
	}
	return products, nil
}

func (s *whiteProductService) Create(ctx context.Context, in model.WhiteProductInput) (*model.WhiteProduct, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := validateImage(in.Image, s.opts.MaxUploadBytes); err != nil {
		return nil, err
	}

	url, path, err := s.images.put(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	product := &model.WhiteProduct{
		Name:        in.Name,
		Description: in.Description,
		Category:    model.Category(in.Category),
		ImageURL:    url,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		s.images.discard(ctx, path)
		return nil, fmt.Errorf("failed to create white product: %w", err)
	}

	s.logger.Info().Int64("id", product.ID).Str("name", product.Name).Msg("white product created")
	return product, nil
}

func (s *whiteProductService) Delete(ctx context.Context, id int64) error {
	var imageURL string
	if s.opts.PurgeOnDelete {
		product, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get white product: %w", err)
		}
		if product == nil {
			return model.ErrNotFound
		}
		imageURL = product.ImageURL
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete white product: %w", err)
	}
	if !deleted {
		return model.ErrNotFound
	}

	if imageURL != "" {
		s.images.purge(ctx, imageURL)
	}
	return nil
}
