package model

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
)

// Generation parameter bounds.
const (
	MinDimension    = 256
	MaxDimension    = 2048
	MinBatchSize    = 1
	MaxBatchSize    = 4
	ProductTemplate = "{product}"
)

// GenerationRequest is the payload relayed to the generation service.
type GenerationRequest struct {
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	LoraName       string `json:"lora_name"`
	PositivePrompt string `json:"positive_prompt"`
	NegativePrompt string `json:"negative_prompt"`
	BatchSize      int    `json:"batch_size"`
}

// ApplyDefaults fills optional fields.
func (r *GenerationRequest) ApplyDefaults() {
	if r.BatchSize == 0 {
		r.BatchSize = 1
	}
}

// Validate checks the request shape. LoRA allow-listing is done separately.
func (r *GenerationRequest) Validate() error {
	if strings.TrimSpace(r.PositivePrompt) == "" {
		return Validationf("positive_prompt is required")
	}
	if r.LoraName == "" {
		return Validationf("lora_name is required")
	}
	if r.Width < MinDimension || r.Width > MaxDimension {
		return Validationf("width must be between %d and %d", MinDimension, MaxDimension)
	}
	if r.Height < MinDimension || r.Height > MaxDimension {
		return Validationf("height must be between %d and %d", MinDimension, MaxDimension)
	}
	if r.BatchSize < MinBatchSize || r.BatchSize > MaxBatchSize {
		return Validationf("batch_size must be between %d and %d", MinBatchSize, MaxBatchSize)
	}
	return nil
}

// UpstreamGenerationPayload is the exact body sent to the generation service.
type UpstreamGenerationPayload struct {
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	ModelName      string `json:"model_name"`
	LoraName       string `json:"lora_name"`
	PositivePrompt string `json:"positive_prompt"`
	NegativePrompt string `json:"negative_prompt"`
	BatchSize      int    `json:"batch_size"`
}

// ResultShape tags which response layout the generation service used.
type ResultShape string

const (
	ShapeNodeKeyed ResultShape = "node_keyed"
	ShapeFlatList  ResultShape = "flat_list"
)

// GeneratedImage is one image descriptor from a generation response.
// Exactly one of ImageURL and ImageData is set.
type GeneratedImage struct {
	NodeID      string `json:"node_id,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	ImageData   string `json:"image_data,omitempty"`
	GeneratedAt string `json:"generated_at,omitempty"`
	Seed        *int64 `json:"seed,omitempty"`
}

// GenerationResult is the parsed generation response: either node-keyed
// descriptor arrays or a flat images list. Raw keeps the upstream bytes.
type GenerationResult struct {
	Shape  ResultShape      `json:"shape"`
	Images []GeneratedImage `json:"images"`
	Raw    json.RawMessage  `json:"-"`
}

type imageDescriptor struct {
	ImageURL    string          `json:"image_url"`
	ImageData   string          `json:"image_data"`
	GeneratedAt string          `json:"generated_at"`
	Seed        json.RawMessage `json:"seed"`
}

// ParseGenerationResult parses a successful generation response body.
func ParseGenerationResult(body []byte) (*GenerationResult, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, &UpstreamError{Service: "generation", Status: 0, Message: "generation service returned invalid JSON"}
	}

	if raw, ok := top["success"]; ok {
		var success bool
		if err := json.Unmarshal(raw, &success); err == nil && !success {
			return nil, &UpstreamError{Service: "generation", Message: extractErrorMessage(top, "generation failed")}
		}
	}

	if raw, ok := top["images"]; ok {
		images, err := parseFlatImages(raw)
		if err != nil {
			return nil, err
		}
		return &GenerationResult{Shape: ShapeFlatList, Images: images, Raw: json.RawMessage(body)}, nil
	}

	nodeIDs := make([]string, 0, len(top))
	for k := range top {
		nodeIDs = append(nodeIDs, k)
	}
	sort.Strings(nodeIDs)

	var images []GeneratedImage
	for _, nodeID := range nodeIDs {
		if nodeID == "success" || nodeID == "error" || nodeID == "steps" {
			continue
		}
		var descriptors []imageDescriptor
		if err := json.Unmarshal(top[nodeID], &descriptors); err != nil {
			return nil, unrecognisedShape()
		}
		for _, d := range descriptors {
			img, err := d.toImage(nodeID)
			if err != nil {
				return nil, err
			}
			images = append(images, img)
		}
	}
	if len(images) == 0 {
		return nil, unrecognisedShape()
	}

	return &GenerationResult{Shape: ShapeNodeKeyed, Images: images, Raw: json.RawMessage(body)}, nil
}

func parseFlatImages(raw json.RawMessage) ([]GeneratedImage, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || len(items) == 0 {
		return nil, unrecognisedShape()
	}

	images := make([]GeneratedImage, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			if s == "" {
				return nil, unrecognisedShape()
			}
			if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
				images = append(images, GeneratedImage{ImageURL: s})
			} else {
				images = append(images, GeneratedImage{ImageData: s})
			}
			continue
		}
		var d imageDescriptor
		if err := json.Unmarshal(item, &d); err != nil {
			return nil, unrecognisedShape()
		}
		img, err := d.toImage("")
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, nil
}

func (d imageDescriptor) toImage(nodeID string) (GeneratedImage, error) {
	if d.ImageURL == "" && d.ImageData == "" {
		return GeneratedImage{}, unrecognisedShape()
	}
	img := GeneratedImage{
		NodeID:      nodeID,
		GeneratedAt: d.GeneratedAt,
	}
	switch {
	case strings.HasPrefix(d.ImageURL, "data:"):
		// Inline payloads sometimes arrive in image_url.
		img.ImageData = d.ImageURL
	case d.ImageURL != "":
		img.ImageURL = d.ImageURL
	default:
		img.ImageData = d.ImageData
	}
	if len(d.Seed) > 0 && !bytes.Equal(d.Seed, []byte("null")) {
		var seed int64
		if err := json.Unmarshal(d.Seed, &seed); err == nil {
			img.Seed = &seed
		}
	}
	return img, nil
}

func unrecognisedShape() error {
	return &UpstreamError{Service: "generation", Message: "generation service returned an unrecognised response shape"}
}

// extractErrorMessage reads the "error" string of an upstream JSON body.
func extractErrorMessage(top map[string]json.RawMessage, fallback string) string {
	if raw, ok := top["error"]; ok {
		var msg string
		if err := json.Unmarshal(raw, &msg); err == nil && msg != "" {
			return msg
		}
	}
	return fallback
}

// UpstreamErrorMessage extracts a message from a non-success reply body:
// the JSON "error" field, else the trimmed body, else fallback.
func UpstreamErrorMessage(body []byte, fallback string) string {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err == nil {
		if msg := extractErrorMessage(top, ""); msg != "" {
			return msg
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return fallback
}

// ComposePrompt substitutes every {product} placeholder in a style prompt.
func ComposePrompt(template, productName string) string {
	return strings.ReplaceAll(template, ProductTemplate, productName)
}
