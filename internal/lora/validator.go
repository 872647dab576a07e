package lora

import (
	"context"
	"fmt"

	"kv-studio/internal/model"

	"github.com/rs/zerolog"
)

type validator struct {
	set     Set
	enforce bool
	logger  zerolog.Logger
}

// ValidatorConfig holds configuration for the allow-list validator.
type ValidatorConfig struct {
	// Source is a local path or s3:// URL. Empty means DefaultNames.
	Source string

	// Enforce turns the check on. When false every name passes.
	Enforce bool
}

// DefaultValidatorConfig enforces the built-in list.
func DefaultValidatorConfig() *ValidatorConfig {
	return &ValidatorConfig{Enforce: true}
}

// NewValidator loads the allow-list once at startup.
func NewValidator(ctx context.Context, config *ValidatorConfig, loader Loader, logger zerolog.Logger) (Validator, error) {
	if config == nil {
		config = DefaultValidatorConfig()
	}

	logger = logger.With().Str("component", "lora-validator").Logger()

	set := NewSet(DefaultNames...)
	if config.Source != "" {
		loaded, err := loader.Load(ctx, config.Source)
		if err != nil {
			logger.Error().Err(err).Str("source", config.Source).Msg("failed to load lora allow-list")
			return nil, fmt.Errorf("failed to load lora allow-list %s: %w", config.Source, err)
		}
		set = loaded
	}

	if !config.Enforce {
		logger.Warn().Msg("lora allow-list enforcement is disabled for every generation endpoint")
	}

	logger.Info().
		Int("allowed", set.Size()).
		Bool("enforce", config.Enforce).
		Msg("lora validator initialised")

	return &validator{set: set, enforce: config.Enforce, logger: logger}, nil
}

func (v *validator) Validate(_ context.Context, name string) error {
	if !v.enforce {
		return nil
	}
	if !v.set.Contains(name) {
		v.logger.Debug().Str("lora_name", name).Msg("lora not in allow-list")
		return model.ErrLoraNotAllowed
	}
	return nil
}

func (v *validator) Names() []string {
	return v.set.Names()
}

func (v *validator) Enforced() bool {
	return v.enforce
}
