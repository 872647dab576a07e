package model

import "time"

// Category groups products into the tabs of the product picker.
type Category string

const (
	CategoryCoffee    Category = "coffee"
	CategorySnacks    Category = "snacks"
	CategoryBeverages Category = "beverages"
)

// Categories lists every valid product category in display order.
var Categories = []Category{CategoryCoffee, CategorySnacks, CategoryBeverages}

// ParseCategory validates a category name.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", Validationf("invalid category %q (must be coffee, snacks or beverages)", s)
}

// StyleKind distinguishes the two prompt-template catalogs, which share a
// shape but live in separate tables and buckets.
type StyleKind string

const (
	KindStyle      StyleKind = "style"
	KindBackground StyleKind = "background"
)

// Style is a named prompt template plus a reference image. Backgrounds use
// the same type.
type Style struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Prompt    string    `json:"prompt" db:"prompt"`
	ImageURL  string    `json:"image_url" db:"image_url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Product represents a catalog item with the LoRA used to render it.
type Product struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Category    Category  `json:"category" db:"category"`
	ProductType string    `json:"product_type" db:"product_type"`
	LoraPath    string    `json:"lora_path" db:"lora_path"`
	ImageURL    string    `json:"image_url" db:"image_url"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// WhiteProduct is a product shot on a white background, used by the
// background replacement flow.
type WhiteProduct struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Category    Category  `json:"category" db:"category"`
	ImageURL    string    `json:"image_url" db:"image_url"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// ImageUpload is an image file received with a create or update request.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// StyleInput carries the editable fields of a style or background.
type StyleInput struct {
	Name   string
	Prompt string
	Image  *ImageUpload
}

// Validate checks required fields for a new style.
func (in StyleInput) Validate() error {
	if in.Name == "" {
		return Validationf("name is required")
	}
	if in.Prompt == "" {
		return Validationf("prompt is required")
	}
	if in.Image == nil {
		return ErrMissingImage
	}
	return nil
}

// ProductInput carries the editable fields of a product. Image is optional
// on update.
type ProductInput struct {
	Name        string
	Description string
	Category    string
	ProductType string
	LoraPath    string
	Image       *ImageUpload
}

// Validate checks required fields. requireImage is true for creation.
func (in ProductInput) Validate(requireImage bool) error {
	switch {
	case in.Name == "":
		return Validationf("name is required")
	case in.Description == "":
		return Validationf("description is required")
	case in.ProductType == "":
		return Validationf("product_type is required")
	case in.LoraPath == "":
		return Validationf("lora_path is required")
	}
	if _, err := ParseCategory(in.Category); err != nil {
		return err
	}
	if requireImage && in.Image == nil {
		return ErrMissingImage
	}
	return nil
}

// WhiteProductInput carries the fields of a new white-background product.
type WhiteProductInput struct {
	Name        string
	Description string
	Category    string
	Image       *ImageUpload
}

// Validate checks required fields.
func (in WhiteProductInput) Validate() error {
	if in.Name == "" {
		return Validationf("name is required")
	}
	if in.Description == "" {
		return Validationf("description is required")
	}
	if _, err := ParseCategory(in.Category); err != nil {
		return err
	}
	if in.Image == nil {
		return ErrMissingImage
	}
	return nil
}
