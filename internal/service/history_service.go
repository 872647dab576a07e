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

type historyService struct {
	repo   repository.HistoryRepository
	images bucketStore
	logger zerolog.Logger
}

// NewHistoryService creates a new history service. Generated artifacts
// live in the output bucket.
func NewHistoryService(repo repository.HistoryRepository, store storage.ObjectStore, logger zerolog.Logger) HistoryService {
	logger = logger.With().Str("service", "history").Logger()
	return &historyService{
		repo:   repo,
		images: bucketStore{store: store, bucket: storage.BucketOutput, logger: logger},
		logger: logger,
	}
}

func userFilter(userID string) *string {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil
	}
	return &userID
}

func (s *historyService) List(ctx context.Context, userID string) ([]model.HistoryRecord, error) {
	records, err := s.repo.List(ctx, userFilter(userID))
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list history")
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	model.SortHistory(records)
	return records, nil
}

func (s *historyService) Overview(ctx context.Context, userID string) (*model.HistoryOverview, error) {
	records, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	overview := model.GroupHistory(records)
	return &overview, nil
}

func (s *historyService) Create(ctx context.Context, in model.HistoryInput) (*model.HistoryRecord, error) {
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	if err := in.Validate(); err != nil {
		return nil, err
	}

	record := &model.HistoryRecord{
		ImageURL:    in.ImageURL,
		StoragePath: in.StoragePath,
		Prompt:      in.Prompt,
		StyleID:     in.StyleID,
		ProductID:   in.ProductID,
		Width:       in.Width,
		Height:      in.Height,
		UserID:      userFilter(derefString(in.UserID)),
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save history record: %w", err)
	}

	s.logger.Debug().Int64("history_id", record.ID).Msg("history record saved")
	return record, nil
}

func (s *historyService) ToggleFavorite(ctx context.Context, id int64) (*model.HistoryRecord, error) {
	record, err := s.repo.ToggleFavorite(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle favorite: %w", err)
	}
	if record == nil {
		return nil, model.ErrNotFound
	}
	return record, nil
}

func (s *historyService) RecordDownload(ctx context.Context, id int64) (*model.HistoryRecord, error) {
	record, err := s.repo.IncrementDownloads(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to record download: %w", err)
	}
	if record == nil {
		return nil, model.ErrNotFound
	}
	return record, nil
}

func (s *historyService) Delete(ctx context.Context, id int64) error {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load history record: %w", err)
	}
	if record == nil {
		return model.ErrNotFound
	}

	if path, ok := s.artifactPath(record); ok {
		if err := s.images.store.Remove(ctx, s.images.bucket, path); err != nil {
			s.logger.Warn().Err(err).Int64("history_id", id).Str("object", path).Msg("failed to remove generated image")
		}
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete history record: %w", err)
	}
	if !deleted {
		return model.ErrNotFound
	}

	s.logger.Info().Int64("history_id", id).Msg("history record deleted")
	return nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// artifactPath locates the output object behind a record. Records added by
// clients carry no storage_path, so their image_url is matched against the
// output bucket instead.
func (s *historyService) artifactPath(record *model.HistoryRecord) (string, bool) {
	if record.StoragePath != nil && *record.StoragePath != "" {
		return *record.StoragePath, true
	}
	return storage.PathFromURL(s.images.store, s.images.bucket, record.ImageURL)
}
