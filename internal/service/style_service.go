package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"kv-studio/internal/model"
	"kv-studio/internal/repository"
	"kv-studio/internal/storage"

	"github.com/rs/zerolog"
)

// styleService implements StyleService for one catalog kind.
type styleService struct {
	kind      model.StyleKind
	repo      repository.StyleRepository
	images    bucketStore
	fetcher   ImageFetcher
	captioner Captioner
	opts      CatalogOptions
	logger    zerolog.Logger
}

// NewStyleService creates the service for styles or backgrounds.
func NewStyleService(
	kind model.StyleKind,
	repo repository.StyleRepository,
	store storage.ObjectStore,
	fetcher ImageFetcher,
	captioner Captioner,
	opts CatalogOptions,
	logger zerolog.Logger,
) StyleService {
	logger = logger.With().Str("service", string(kind)).Logger()

	bucket := storage.BucketStyles
	if kind == model.KindBackground {
		bucket = storage.BucketBackgrounds
	}

	return &styleService{
		kind:      kind,
		repo:      repo,
		images:    bucketStore{store: store, bucket: bucket, logger: logger},
		fetcher:   fetcher,
		captioner: captioner,
		opts:      opts,
		logger:    logger,
	}
}

func (s *styleService) List(ctx context.Context) ([]model.Style, error) {
	styles, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list entries")
		return nil, fmt.Errorf("failed to list %ss: %w", s.kind, err)
	}
	return styles, nil
}

func (s *styleService) Create(ctx context.Context, in model.StyleInput) (*model.Style, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Prompt = strings.TrimSpace(in.Prompt)
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

	style := &model.Style{Name: in.Name, Prompt: in.Prompt, ImageURL: url}
	if err := s.repo.Create(ctx, style); err != nil {
		s.images.discard(ctx, path)
		return nil, fmt.Errorf("failed to create %s: %w", s.kind, err)
	}

	s.logger.Info().Int64("id", style.ID).Str("name", style.Name).Msg("entry created")
	return style, nil
}

func (s *styleService) UpdatePrompt(ctx context.Context, id int64, prompt string) (*model.Style, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, model.Validationf("prompt is required")
	}

	style, err := s.repo.UpdatePrompt(ctx, id, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to update %s prompt: %w", s.kind, err)
	}
	if style == nil {
		return nil, model.ErrNotFound
	}
	return style, nil
}

func (s *styleService) RegeneratePrompt(ctx context.Context, id int64) (*model.Style, error) {
	style, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", s.kind, err)
	}
	if style == nil {
		return nil, model.ErrNotFound
	}
	if style.ImageURL == "" {
		return nil, model.ErrMissingImage
	}

	img, err := s.fetcher.Fetch(ctx, style.ImageURL)
	if err != nil {
		s.logger.Warn().Err(err).Int64("id", id).Msg("failed to fetch image for captioning")
		return nil, err
	}

	prompt, err := s.caption(ctx, *img)
	if err != nil {
		s.logger.Warn().Err(err).Int64("id", id).Msg("magic prompt failed")
		return nil, err
	}

	updated, err := s.repo.UpdatePrompt(ctx, id, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to store regenerated prompt: %w", err)
	}
	if updated == nil {
		return nil, model.ErrNotFound
	}

	s.logger.Info().Int64("id", id).Msg("prompt regenerated")
	return updated, nil
}

// caption runs the captioning call under the configured timeout.
func (s *styleService) caption(ctx context.Context, img model.ImageUpload) (string, error) {
	cctx := ctx
	if s.opts.CaptionTimeout > 0 {
		var cancel context.CancelFunc
		cctx, cancel = context.WithTimeout(ctx, s.opts.CaptionTimeout)
		defer cancel()
	}

	resp, err := s.captioner.Caption(cctx, img)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return "", model.NewDomainError(model.ErrCodeUpstreamTimeout, model.CaptionTimeoutMessage(s.opts.CaptionTimeout))
		}
		return "", err
	}

	prompt, err := resp.PromptText()
	if err != nil {
		return "", err
	}

	cleaned := model.CleanCaptionPrompt(prompt)
	if cleaned == "" {
		return "", &model.UpstreamError{Service: "caption", Message: model.CaptionNoPrompt}
	}
	return cleaned, nil
}

func (s *styleService) Delete(ctx context.Context, id int64) error {
	var imageURL string
	if s.opts.PurgeOnDelete {
		style, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", s.kind, err)
		}
		if style == nil {
			return model.ErrNotFound
		}
		imageURL = style.ImageURL
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", s.kind, err)
	}
	if !deleted {
		return model.ErrNotFound
	}

	if imageURL != "" {
		s.images.purge(ctx, imageURL)
	}

	s.logger.Info().Int64("id", id).Msg("entry deleted")
	return nil
}
