package storage

import (
	"context"
	"fmt"

	"kv-studio/internal/config"

	"github.com/rs/zerolog"
)

// New builds the store selected by cfg.Provider.
func New(ctx context.Context, cfg config.StorageConfig, logger zerolog.Logger) (ObjectStore, error) {
	switch cfg.Provider {
	case config.StorageLocal:
		return NewLocalStore(cfg.LocalDir, cfg.PublicBaseURL, logger)
	case config.StorageS3:
		client, err := NewS3Client(ctx, cfg.S3Region, cfg.S3Endpoint)
		if err != nil {
			return nil, err
		}
		return NewS3Store(client, cfg.S3Bucket, cfg.S3Region, cfg.S3PublicBaseURL, logger), nil
	case config.StorageSupabase:
		client, err := NewSupabaseClient(cfg.SupabaseURL, cfg.SupabaseKey)
		if err != nil {
			return nil, err
		}
		return NewSupabaseStore(client, logger), nil
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
	}
}
