package lora

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// S3GetObjectAPI is the part of the S3 client the loader needs.
type S3GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type s3Loader struct {
	client S3GetObjectAPI
	logger zerolog.Logger
}

// NewS3Loader creates a loader for s3://bucket/key sources.
func NewS3Loader(client S3GetObjectAPI, logger zerolog.Logger) Loader {
	return &s3Loader{
		client: client,
		logger: logger.With().Str("component", "s3-lora-loader").Logger(),
	}
}

func (l *s3Loader) Load(ctx context.Context, source string) (Set, error) {
	bucket, key, err := parseS3URL(source)
	if err != nil {
		return nil, err
	}

	l.logger.Info().Str("bucket", bucket).Str("key", key).Msg("loading lora allow-list from S3")

	result, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		l.logger.Error().Err(err).Str("bucket", bucket).Str("key", key).Msg("failed to get object from S3")
		return nil, fmt.Errorf("failed to get object from S3 (bucket=%s, key=%s): %w", bucket, key, err)
	}
	defer result.Body.Close()

	set, err := parseList(ctx, result.Body, strings.HasSuffix(key, ".gz"))
	if err != nil {
		return nil, fmt.Errorf("failed to read lora allow-list from S3 %s: %w", key, err)
	}

	l.logger.Info().Str("bucket", bucket).Str("key", key).Int("names_loaded", set.Size()).Msg("lora allow-list loaded from S3")

	return set, nil
}

func parseS3URL(source string) (bucket, key string, err error) {
	u, err := url.Parse(source)
	if err != nil || u.Scheme != "s3" || u.Host == "" {
		return "", "", fmt.Errorf("invalid S3 source %q (expected s3://bucket/key)", source)
	}
	key = strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", "", fmt.Errorf("invalid S3 source %q: missing key", source)
	}
	return u.Host, key, nil
}

type sourceLoader struct {
	s3Loader   Loader
	fileLoader Loader
	logger     zerolog.Logger
}

// NewSourceLoader routes s3:// sources to s3Loader and everything else to
// fileLoader. s3Loader may be nil when S3 is not configured.
func NewSourceLoader(s3Loader, fileLoader Loader, logger zerolog.Logger) Loader {
	return &sourceLoader{
		s3Loader:   s3Loader,
		fileLoader: fileLoader,
		logger:     logger.With().Str("component", "lora-source-loader").Logger(),
	}
}

func (l *sourceLoader) Load(ctx context.Context, source string) (Set, error) {
	if IsS3Source(source) {
		if l.s3Loader == nil {
			return nil, fmt.Errorf("S3 source %q configured but no S3 loader available", source)
		}
		return l.s3Loader.Load(ctx, source)
	}

	l.logger.Debug().Str("source", source).Msg("loading from local file system")

	return l.fileLoader.Load(ctx, source)
}

// IsS3Source reports whether source is an s3:// URL.
func IsS3Source(source string) bool {
	return strings.HasPrefix(source, "s3://")
}
