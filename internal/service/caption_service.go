package service

import (
	"context"

	"kv-studio/internal/model"

	"github.com/rs/zerolog"
)

type captionService struct {
	captioner Captioner
	maxBytes  int64
	logger    zerolog.Logger
}

// NewCaptionService creates the caption forwarder.
func NewCaptionService(captioner Captioner, maxBytes int64, logger zerolog.Logger) CaptionService {
	return &captionService{
		captioner: captioner,
		maxBytes:  maxBytes,
		logger:    logger.With().Str("service", "caption").Logger(),
	}
}

func (s *captionService) Caption(ctx context.Context, image *model.ImageUpload) *model.CaptionResponse {
	if err := validateImage(image, s.maxBytes); err != nil {
		return model.CaptionFailure(err.Error())
	}

	resp, err := s.captioner.Caption(ctx, *image)
	if err != nil {
		s.logger.Error().Err(err).Msg("caption forwarding failed")
		return model.CaptionFailure(err.Error())
	}

	if !resp.Success {
		s.logger.Warn().Str("error", resp.ErrorMessage()).Msg("captioning service reported failure")
	}
	return resp
}
