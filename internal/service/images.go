package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"kv-studio/internal/model"
	"kv-studio/internal/storage"

	"github.com/rs/zerolog"
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
}

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// validateImage accepts JPG and PNG files up to maxBytes.
func validateImage(img *model.ImageUpload, maxBytes int64) error {
	if img == nil || len(img.Data) == 0 {
		return model.ErrMissingImage
	}
	contentType := strings.ToLower(strings.TrimSpace(strings.SplitN(img.ContentType, ";", 2)[0]))
	ext := strings.ToLower(filepath.Ext(img.Filename))
	if !allowedImageTypes[contentType] && !allowedImageExts[ext] {
		return model.ErrUnsupportedImage
	}
	if maxBytes > 0 && int64(len(img.Data)) > maxBytes {
		return model.ErrImageTooLarge
	}
	return nil
}

// storageFailure marks err as STORAGE_FAILED while keeping the cause.
func storageFailure(err error) error {
	return fmt.Errorf("failed to upload image: %w", errors.Join(model.ErrStorage, err))
}

// bucketStore binds an object store to one bucket and handles the
// upload-then-insert compensation shared by the catalog services.
type bucketStore struct {
	store  storage.ObjectStore
	bucket string
	logger zerolog.Logger
}

// put uploads the image under a timestamped name and returns its public
// URL and object path.
func (b bucketStore) put(ctx context.Context, img *model.ImageUpload) (url, path string, err error) {
	name := storage.ObjectName(time.Now(), img.Filename)
	path, err = b.store.Upload(ctx, b.bucket, name, img.Data, img.ContentType)
	if err != nil {
		b.logger.Error().Err(err).Str("bucket", b.bucket).Str("object", name).Msg("image upload failed")
		return "", "", storageFailure(err)
	}
	return b.store.PublicURL(b.bucket, path), path, nil
}

// discard removes an object uploaded for a write that did not complete.
func (b bucketStore) discard(ctx context.Context, path string) {
	if err := b.store.Remove(ctx, b.bucket, path); err != nil {
		b.logger.Error().Err(err).Str("bucket", b.bucket).Str("object", path).Msg("failed to remove orphaned upload")
		return
	}
	b.logger.Debug().Str("bucket", b.bucket).Str("object", path).Msg("removed orphaned upload")
}

// purge removes the object behind a public URL. Foreign URLs are ignored.
func (b bucketStore) purge(ctx context.Context, url string) {
	path, ok := storage.PathFromURL(b.store, b.bucket, url)
	if !ok {
		b.logger.Debug().Str("url", url).Msg("image url not owned by this store; skipping purge")
		return
	}
	if err := b.store.Remove(ctx, b.bucket, path); err != nil {
		b.logger.Warn().Err(err).Str("bucket", b.bucket).Str("object", path).Msg("failed to purge image")
	}
}

// decodeImageData decodes a base64 payload or data URL from a generation
// reply. It returns the bytes, the content type and a file extension.
func decodeImageData(s string) ([]byte, string, string, error) {
	contentType := "image/png"
	payload := s
	if strings.HasPrefix(s, "data:") {
		meta, data, ok := strings.Cut(s, ",")
		if !ok {
			return nil, "", "", fmt.Errorf("malformed data url")
		}
		meta = strings.TrimPrefix(meta, "data:")
		if mediaType, _, _ := strings.Cut(meta, ";"); mediaType != "" {
			contentType = mediaType
		}
		payload = data
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(payload)
		if err != nil {
			return nil, "", "", fmt.Errorf("failed to decode image data: %w", err)
		}
	}

	ext := ".png"
	if contentType == "image/jpeg" || contentType == "image/jpg" {
		ext = ".jpg"
	}
	return data, contentType, ext, nil
}
