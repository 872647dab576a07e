package service

import (
	"context"
	"fmt"
	"time"

	"kv-studio/internal/lora"
	"kv-studio/internal/model"
	"kv-studio/internal/repository"
	"kv-studio/internal/storage"

	"github.com/rs/zerolog"
)

type generationService struct {
	generator Generator
	validator lora.Validator
	styles    repository.StyleRepository
	products  repository.ProductRepository
	history   HistoryService
	outputs   bucketStore
	logger    zerolog.Logger
}

// NewGenerationService creates the generation forwarder. styles, products
// and history are used by the composed flow only.
func NewGenerationService(
	generator Generator,
	validator lora.Validator,
	styles repository.StyleRepository,
	products repository.ProductRepository,
	history HistoryService,
	store storage.ObjectStore,
	logger zerolog.Logger,
) GenerationService {
	logger = logger.With().Str("service", "generation").Logger()
	return &generationService{
		generator: generator,
		validator: validator,
		styles:    styles,
		products:  products,
		history:   history,
		outputs:   bucketStore{store: store, bucket: storage.BucketOutput, logger: logger},
		logger:    logger,
	}
}

func (s *generationService) Generate(ctx context.Context, req model.GenerationRequest) (*model.GenerationResult, error) {
	req.ApplyDefaults()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(ctx, req.LoraName); err != nil {
		s.logger.Warn().Str("lora_name", req.LoraName).Msg("rejected lora")
		return nil, err
	}

	start := time.Now()
	result, err := s.generator.Generate(ctx, req)
	if err != nil {
		s.logger.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("generation failed")
		return nil, err
	}

	s.logger.Info().
		Str("shape", string(result.Shape)).
		Int("images", len(result.Images)).
		Dur("elapsed", time.Since(start)).
		Msg("generation completed")
	return result, nil
}

func (s *generationService) Compose(ctx context.Context, req model.ComposeRequest) (*model.ComposeResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	selection, err := s.loadSelection(ctx, req.StyleID, req.ProductID)
	if err != nil {
		return nil, err
	}
	if err := selection.Ready(); err != nil {
		return nil, err
	}

	prompt := selection.Prompt(req.Prompt)
	genReq := model.GenerationRequest{
		Width:          req.Width,
		Height:         req.Height,
		LoraName:       selection.Product.LoraPath,
		PositivePrompt: prompt,
		NegativePrompt: req.NegativePrompt,
		BatchSize:      req.BatchSize,
	}

	result, err := s.Generate(ctx, genReq)
	if err != nil {
		return nil, err
	}

	out := &model.ComposeResult{Prompt: prompt, Result: result, History: []model.HistoryRecord{}}
	if req.ShouldSaveHistory() {
		out.History = s.saveHistory(ctx, req, prompt, result)
	}
	return out, nil
}

func (s *generationService) loadSelection(ctx context.Context, styleID, productID int64) (model.Selection, error) {
	var selection model.Selection

	style, err := s.styles.GetByID(ctx, styleID)
	if err != nil {
		return selection, fmt.Errorf("failed to load style: %w", err)
	}
	if style == nil {
		return selection, model.ErrIncompleteSelection
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return selection, fmt.Errorf("failed to load product: %w", err)
	}
	if product == nil {
		return selection, model.ErrIncompleteSelection
	}

	return selection.SelectStyle(style).SelectProduct(product), nil
}

// saveHistory records one entry per generated image. Failures are logged
// and skipped; the generation result is returned regardless.
func (s *generationService) saveHistory(ctx context.Context, req model.ComposeRequest, prompt string, result *model.GenerationResult) []model.HistoryRecord {
	saved := make([]model.HistoryRecord, 0, len(result.Images))
	for i, img := range result.Images {
		in := model.HistoryInput{
			ImageURL:  img.ImageURL,
			Prompt:    prompt,
			StyleID:   &req.StyleID,
			ProductID: &req.ProductID,
			Width:     req.Width,
			Height:    req.Height,
		}

		if in.ImageURL == "" {
			url, path, err := s.storeOutput(ctx, i, img.ImageData)
			if err != nil {
				s.logger.Error().Err(err).Int("image", i).Msg("failed to store generated image")
				continue
			}
			in.ImageURL = url
			in.StoragePath = &path
		}

		record, err := s.history.Create(ctx, in)
		if err != nil {
			s.logger.Error().Err(err).Int("image", i).Msg("failed to save history record")
			if in.StoragePath != nil {
				s.outputs.discard(ctx, *in.StoragePath)
			}
			continue
		}
		saved = append(saved, *record)
	}
	return saved
}

func (s *generationService) storeOutput(ctx context.Context, index int, payload string) (string, string, error) {
	data, contentType, ext, err := decodeImageData(payload)
	if err != nil {
		return "", "", err
	}
	return s.outputs.put(ctx, &model.ImageUpload{
		Filename:    fmt.Sprintf("kv-%d%s", index+1, ext),
		ContentType: contentType,
		Data:        data,
	})
}
