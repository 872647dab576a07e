package lora

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a loader for allow-list files on local disk.
// Files ending in .gz are decompressed.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "lora-loader").Logger(),
	}
}

func (l *fileLoader) Load(ctx context.Context, path string) (Set, error) {
	l.logger.Info().Str("file", path).Msg("loading lora allow-list")

	file, err := os.Open(path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to open lora allow-list")
		return nil, fmt.Errorf("failed to open lora allow-list %s: %w", path, err)
	}
	defer file.Close()

	set, err := parseList(ctx, file, strings.HasSuffix(path, ".gz"))
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to read lora allow-list")
		return nil, fmt.Errorf("failed to read lora allow-list %s: %w", path, err)
	}

	l.logger.Info().Str("file", path).Int("names_loaded", set.Size()).Msg("lora allow-list loaded")

	return set, nil
}

// parseList reads one name per line. Blank lines and lines starting with
// '#' are skipped.
func parseList(ctx context.Context, r io.Reader, gzipped bool) (Set, error) {
	if gzipped {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	set := NewSet().(*mapSet)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		set.add(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if set.Size() == 0 {
		return nil, fmt.Errorf("allow-list is empty")
	}

	return set, nil
}
