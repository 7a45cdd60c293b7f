package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Store is the media-store client: it uploads image bytes under a logical
// namespace (e.g. "products/preview") and returns a stable public URL, and
// deletes objects addressed by that URL. Uploads and deletes are side
// effects outside any database transaction; callers decide what a failure
// means for them.
type Store interface {
	Upload(ctx context.Context, namespace string, reader io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, url string) error
}

// Config holds media store configuration.
type Config struct {
	Type      string // local, s3, cloudflare_r2
	BasePath  string // for local storage
	BaseURL   string // public URL base
	Bucket    string // for S3/R2
	Region    string // for S3
	AccessKey string // for S3/R2
	SecretKey string // for S3/R2
	Endpoint  string // for R2 or custom S3
}

// NewStore creates a media store instance based on configuration.
func NewStore(cfg Config) (Store, error) {
	switch cfg.Type {
	case "local":
		return NewLocalStore(cfg)
	case "s3", "cloudflare_r2":
		return NewS3Store(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// newObjectKey builds a unique object key inside a namespace. The extension
// is derived from the content type so the public URL stays recognizable.
func newObjectKey(namespace, contentType string) string {
	ext := ".jpg"
	switch contentType {
	case "image/png":
		ext = ".png"
	case "image/gif":
		ext = ".gif"
	case "image/webp":
		ext = ".webp"
	}
	return path.Join(namespace, uuid.NewString()+ext)
}

// KeyFromURL derives the object key back from a public URL, the identifier
// used for deletes. Returns an empty string when the URL does not belong to
// the store rooted at baseURL.
func KeyFromURL(baseURL, url string) string {
	base := strings.TrimSuffix(baseURL, "/")
	if base == "" || !strings.HasPrefix(url, base+"/") {
		return ""
	}
	return strings.TrimPrefix(url, base+"/")
}
