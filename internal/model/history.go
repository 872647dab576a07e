package model

import (
	"sort"
	"time"
)

// FeaturedFavoritesLimit is how many favorites the overview highlights.
const FeaturedFavoritesLimit = 4

// HistoryRecord describes one past generation result.
type HistoryRecord struct {
	ID            int64     `json:"id" db:"id"`
	ImageURL      string    `json:"image_url" db:"image_url"`
	StoragePath   *string   `json:"storage_path,omitempty" db:"storage_path"`
	Prompt        string    `json:"prompt" db:"prompt"`
	StyleID       *int64    `json:"style_id" db:"style_id"`
	ProductID     *int64    `json:"product_id" db:"product_id"`
	Width         int       `json:"width" db:"width"`
	Height        int       `json:"height" db:"height"`
	UserID        *string   `json:"user_id,omitempty" db:"user_id"`
	IsFavorite    bool      `json:"is_favorite" db:"is_favorite"`
	DownloadCount int       `json:"download_count" db:"download_count"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// HistoryInput is the payload for recording a generation.
type HistoryInput struct {
	ImageURL    string  `json:"image_url"`
	StoragePath *string `json:"-"`
	Prompt      string  `json:"prompt"`
	StyleID     *int64  `json:"style_id"`
	ProductID   *int64  `json:"product_id"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	UserID      *string `json:"user_id,omitempty"`
}

// Validate checks required fields.
func (in HistoryInput) Validate() error {
	if in.ImageURL == "" {
		return Validationf("image_url is required")
	}
	if in.Width <= 0 || in.Height <= 0 {
		return Validationf("width and height must be positive")
	}
	return nil
}

// HistoryOverview is the grouped view of the history page.
type HistoryOverview struct {
	Featured  []HistoryRecord `json:"featured"`
	Favorites []HistoryRecord `json:"favorites"`
	Others    []HistoryRecord `json:"others"`
}

// SortHistory orders records favorites first, then newest first within
// each group. Ties on created_at fall back to the higher id.
func SortHistory(records []HistoryRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.IsFavorite != b.IsFavorite {
			return a.IsFavorite
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
}

// GroupHistory splits sorted records into the overview sections.
func GroupHistory(records []HistoryRecord) HistoryOverview {
	sorted := make([]HistoryRecord, len(records))
	copy(sorted, records)
	SortHistory(sorted)

	overview := HistoryOverview{
		Featured:  []HistoryRecord{},
		Favorites: []HistoryRecord{},
		Others:    []HistoryRecord{},
	}
	for _, r := range sorted {
		if r.IsFavorite {
			overview.Favorites = append(overview.Favorites, r)
		} else {
			overview.Others = append(overview.Others, r)
		}
	}
	n := len(overview.Favorites)
	if n > FeaturedFavoritesLimit {
		n = FeaturedFavoritesLimit
	}
	overview.Featured = overview.Favorites[:n]

	return overview
}
