package model

// Selection is the style and product picked for a single generation.
// It lives for one request only.
type Selection struct {
	Style   *Style
	Product *Product
}

// SelectStyle replaces the selected style.
func (s Selection) SelectStyle(style *Style) Selection {
	s.Style = style
	return s
}

// SelectProduct replaces the selected product.
func (s Selection) SelectProduct(product *Product) Selection {
	s.Product = product
	return s
}

// Clear drops both picks.
func (Selection) Clear() Selection {
	return Selection{}
}

// Ready reports whether both picks are present and carry an image.
func (s Selection) Ready() error {
	if s.Style == nil || s.Product == nil {
		return ErrIncompleteSelection
	}
	if s.Style.ImageURL == "" || s.Product.ImageURL == "" {
		return ErrIncompleteSelection
	}
	return nil
}

// Prompt builds the positive prompt: the override when set, else the style
// prompt with the product name substituted.
func (s Selection) Prompt(override string) string {
	if override != "" {
		return override
	}
	if s.Style == nil {
		return ""
	}
	name := ""
	if s.Product != nil {
		name = s.Product.Name
	}
	return ComposePrompt(s.Style.Prompt, name)
}

// ComposeRequest is the body of the composed generation endpoint.
type ComposeRequest struct {
	StyleID        int64  `json:"style_id"`
	ProductID      int64  `json:"product_id"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	NegativePrompt string `json:"negative_prompt"`
	BatchSize      int    `json:"batch_size"`
	Prompt         string `json:"prompt"`
	SaveHistory    *bool  `json:"save_history"`
}

// Validate checks the ids; dimension checks happen on the derived request.
func (r ComposeRequest) Validate() error {
	if r.StyleID <= 0 || r.ProductID <= 0 {
		return ErrIncompleteSelection
	}
	return nil
}

// ShouldSaveHistory defaults to true when unset.
func (r ComposeRequest) ShouldSaveHistory() bool {
	return r.SaveHistory == nil || *r.SaveHistory
}

// ComposeResult is the composed endpoint reply.
type ComposeResult struct {
	Prompt  string            `json:"prompt"`
	Result  *GenerationResult `json:"result"`
	History []HistoryRecord   `json:"history"`
}
