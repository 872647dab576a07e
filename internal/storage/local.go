package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// LocalStore keeps objects on disk under dir/bucket/name. The API serves
// them from /files/{bucket}/{name}.
type LocalStore struct {
	dir     string
	baseURL string
	logger  zerolog.Logger
}

// NewLocalStore creates the bucket directories under dir.
func NewLocalStore(dir, publicBaseURL string, logger zerolog.Logger) (*LocalStore, error) {
	for _, b := range Buckets {
		if err := os.MkdirAll(filepath.Join(dir, b), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create bucket directory %s: %w", b, err)
		}
	}

	return &LocalStore{
		dir:     dir,
		baseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:  logger.With().Str("component", "local-store").Logger(),
	}, nil
}

func (s *LocalStore) Upload(ctx context.Context, bucket, name string, data []byte, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path, err := s.FilePath(bucket, name)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		s.logger.Error().Err(err).Str("bucket", bucket).Str("name", name).Msg("failed to write object")
		return "", fmt.Errorf("failed to write object %s/%s: %w", bucket, name, err)
	}

	s.logger.Debug().Str("bucket", bucket).Str("name", name).Int("bytes", len(data)).Msg("object stored")

	return name, nil
}

func (s *LocalStore) PublicURL(bucket, path string) string {
	return fmt.Sprintf("%s/files/%s/%s", s.baseURL, bucket, url.PathEscape(path))
}

func (s *LocalStore) Remove(ctx context.Context, bucket, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fp, err := s.FilePath(bucket, path)
	if err != nil {
		return err
	}

	if err := os.Remove(fp); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove object %s/%s: %w", bucket, path, err)
	}

	return nil
}

// FilePath maps an object to its file, rejecting unknown buckets and names
// that could escape the bucket directory.
func (s *LocalStore) FilePath(bucket, name string) (string, error) {
	if !IsKnownBucket(bucket) {
		return "", fmt.Errorf("unknown bucket %q", bucket)
	}
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid object name %q", name)
	}
	return filepath.Join(s.dir, bucket, name), nil
}
