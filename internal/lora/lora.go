// Package lora holds the allow-list of LoRA model files that may be sent
// to the generation service.
package lora

import (
	"context"
)

// DefaultNames is the allow-list used when no source file is configured.
var DefaultNames = []string{
	"F.1电商系列-场景插画_V1.0.safetensors",
	"Flux_小红书真实风格丨日常照片丨极致逼真_V1.safetensors",
	"NCMocha.safetensors",
	"XLabs F.1 Realism LoRA_V1.safetensors",
}

// Validator checks LoRA names before a generation request leaves the service.
type Validator interface {
	// Validate returns model.ErrLoraNotAllowed for names outside the list.
	Validate(ctx context.Context, name string) error

	// Names returns the allowed names in sorted order.
	Names() []string

	// Enforced reports whether Validate rejects anything.
	Enforced() bool
}

// Set is a read-only collection of LoRA names.
type Set interface {
	Contains(name string) bool
	Size() int
	Names() []string
}

// Loader reads an allow-list from a source (local path or s3:// URL).
type Loader interface {
	Load(ctx context.Context, source string) (Set, error)
}
