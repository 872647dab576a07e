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

// productService implements ProductService.
type productService struct {
	repo   repository.ProductRepository
	images bucketStore
	opts   CatalogOptions
	logger zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(repo repository.ProductRepository, store storage.ObjectStore, opts CatalogOptions, logger zerolog.Logger) ProductService {
	logger = logger.With().Str("service", "product").Logger()
	return &productService{
		repo:   repo,
		images: bucketStore{store: store, bucket: storage.BucketProducts, logger: logger},
		opts:   opts,
		logger: logger,
	}
}

// parseCategoryFilter turns an optional query value into a repository filter.
func parseCategoryFilter(category string) (*model.Category, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, nil
	}
	c, err := model.ParseCategory(category)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *productService) List(ctx context.Context, category string) ([]model.Product, error) {
	filter, err := parseCategoryFilter(category)
	if err != nil {
		return nil, err
	}

	products, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Str("category", category).Msg("failed to list products")
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	s.logger.Debug().Int("count", len(products)).Str("category", category).Msg("retrieved products")
	return products, nil
}

func (s *productService) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrNotFound
	}
	return product, nil
}

func (s *productService) Create(ctx context.Context, in model.ProductInput) (*model.Product, error) {
	in = trimProductInput(in)
	if err := in.Validate(true); err != nil {
		return nil, err
	}
	if err := validateImage(in.Image, s.opts.MaxUploadBytes); err != nil {
		return nil, err
	}

	url, path, err := s.images.put(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:        in.Name,
		Description: in.Description,
		Category:    model.Category(in.Category),
		ProductType: in.ProductType,
		LoraPath:    in.LoraPath,
		ImageURL:    url,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		s.images.discard(ctx, path)
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info().Int64("product_id", product.ID).Str("name", product.Name).Msg("product created")
	return product, nil
}

func (s *productService) Update(ctx context.Context, id int64, in model.ProductInput) (*model.Product, error) {
	in = trimProductInput(in)
	if err := in.Validate(false); err != nil {
		return nil, err
	}
	if in.Image != nil {
		if err := validateImage(in.Image, s.opts.MaxUploadBytes); err != nil {
			return nil, err
		}
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if existing == nil {
		return nil, model.ErrNotFound
	}

	product := &model.Product{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		Category:    model.Category(in.Category),
		ProductType: in.ProductType,
		LoraPath:    in.LoraPath,
		ImageURL:    existing.ImageURL,
	}

	var uploaded string
	if in.Image != nil {
		url, path, err := s.images.put(ctx, in.Image)
		if err != nil {
			return nil, err
		}
		product.ImageURL = url
		uploaded = path
	}

	ok, err := s.repo.Update(ctx, product)
	if err != nil || !ok {
		if uploaded != "" {
			s.images.discard(ctx, uploaded)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
		return nil, model.ErrNotFound
	}

	if uploaded != "" && s.opts.PurgeOnDelete && existing.ImageURL != "" {
		s.images.purge(ctx, existing.ImageURL)
	}

	s.logger.Info().Int64("product_id", id).Bool("image_replaced", uploaded != "").Msg("product updated")
	return product, nil
}

func (s *productService) Delete(ctx context.Context, id int64) error {
	var imageURL string
	if s.opts.PurgeOnDelete {
		product, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get product: %w", err)
		}
		if product == nil {
			return model.ErrNotFound
		}
		imageURL = product.ImageURL
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if !deleted {
		return model.ErrNotFound
	}

	if imageURL != "" {
		s.images.purge(ctx, imageURL)
	}

	s.logger.Info().Int64("product_id", id).Msg("product deleted")
	return nil
}

func trimProductInput(in model.ProductInput) model.ProductInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	in.ProductType = strings.TrimSpace(in.ProductType)
	in.LoraPath = strings.TrimSpace(in.LoraPath)
	return in
}
