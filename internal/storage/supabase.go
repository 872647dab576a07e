package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	storage_go "github.com/supabase-community/storage-go"
	"github.com/supabase-community/supabase-go"
)

// SupabaseAPI is the part of the Supabase storage client the store uses.
type SupabaseAPI interface {
	UploadFile(bucketId string, relativePath string, data io.Reader, fileOptions ...storage_go.FileOptions) (storage_go.FileUploadResponse, error)
	GetPublicUrl(bucketId string, filePath string, urlOptions ...storage_go.UrlOptions) storage_go.SignedUrlResponse
	RemoveFile(bucketId string, paths []string) ([]storage_go.FileUploadResponse, error)
}

// NewSupabaseClient returns the storage client of a Supabase project.
func NewSupabaseClient(url, serviceKey string) (SupabaseAPI, error) {
	client, err := supabase.NewClient(url, serviceKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}
	return client.Storage, nil
}

// SupabaseStore uses one Supabase storage bucket per logical bucket.
type SupabaseStore struct {
	client SupabaseAPI
	logger zerolog.Logger
}

// NewSupabaseStore wraps a Supabase storage client.
func NewSupabaseStore(client SupabaseAPI, logger zerolog.Logger) *SupabaseStore {
	return &SupabaseStore{
		client: client,
		logger: logger.With().Str("component", "supabase-store").Logger(),
	}
}

func (s *SupabaseStore) Upload(ctx context.Context, bucket, name string, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	upsert := false
	opts := storage_go.FileOptions{Upsert: &upsert}
	if contentType != "" {
		opts.ContentType = &contentType
	}

	if _, err := s.client.UploadFile(bucket, name, bytes.NewReader(data), opts); err != nil {
		s.logger.Error().Err(err).Str("bucket", bucket).Str("name", name).Msg("failed to upload to supabase storage")
		return "", fmt.Errorf("failed to upload %s/%s to supabase storage: %w", bucket, name, err)
	}

	return name, nil
}

func (s *SupabaseStore) PublicURL(bucket, path string) string {
	return s.client.GetPublicUrl(bucket, path).SignedURL
}

func (s *SupabaseStore) Remove(ctx context.Context, bucket, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := s.client.RemoveFile(bucket, []string{path}); err != nil {
		return fmt.Errorf("failed to remove %s/%s from supabase storage: %w", bucket, path, err)
	}

	return nil
}
