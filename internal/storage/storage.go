// Package storage puts catalog and generated images into an object store
// and resolves their public URLs.
package storage

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Logical buckets.
const (
	BucketStyles        = "styles"
	BucketBackgrounds   = "backgrounds"
	BucketProducts      = "products"
	BucketWhiteProducts = "whitebg_product"
	BucketOutput        = "output"
)

// Buckets lists every bucket the service writes to.
var Buckets = []string{BucketStyles, BucketBackgrounds, BucketProducts, BucketWhiteProducts, BucketOutput}

// ObjectStore is implemented by each storage provider.
type ObjectStore interface {
	// Upload stores data under bucket/name and returns the object path.
	Upload(ctx context.Context, bucket, name string, data []byte, contentType string) (string, error)

	// PublicURL returns the URL clients use to fetch the object.
	PublicURL(bucket, path string) string

	// Remove deletes the object. Removing a missing object is not an error.
	Remove(ctx context.Context, bucket, path string) error
}

var (
	nonASCII    = regexp.MustCompile(`[^\x00-\x7F]`)
	whitespace  = regexp.MustCompile(`\s+`)
	unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)
)

// SanitizeFilename makes an uploaded file name safe for object keys:
// non-ASCII is dropped, whitespace runs become "_", anything outside
// [A-Za-z0-9._-] is stripped. The result is never empty.
func SanitizeFilename(name string) string {
	name = nonASCII.ReplaceAllString(name, "")
	name = whitespace.ReplaceAllString(name, "_")
	name = unsafeChars.ReplaceAllString(name, "")
	if name == "" {
		return "file"
	}
	return name
}

// ObjectName builds the timestamp-prefixed object name for an upload.
func ObjectName(now time.Time, original string) string {
	return fmt.Sprintf("%d-%s", now.UnixMilli(), SanitizeFilename(original))
}

// IsKnownBucket reports whether bucket is one of Buckets.
func IsKnownBucket(bucket string) bool {
	for _, b := range Buckets {
		if b == bucket {
			return true
		}
	}
	return false
}

// PathFromURL recovers the object path from a URL produced by
// store.PublicURL. ok is false for URLs the store did not issue.
func PathFromURL(store ObjectStore, bucket, rawURL string) (path string, ok bool) {
	prefix := store.PublicURL(bucket, "")
	if prefix == "" || !strings.HasPrefix(rawURL, prefix) {
		return "", false
	}
	path = strings.TrimPrefix(rawURL, prefix)
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "", false
	}
	return path, true
}
