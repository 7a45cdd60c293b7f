package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStore implements Store on the local filesystem. Used in development
// and tests; the served URL is baseURL + "/" + key.
type LocalStore struct {
	basePath string
	baseURL  string
}

func NewLocalStore(cfg Config) (*LocalStore, error) {
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "./uploads"
	}

	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStore{
		basePath: basePath,
		baseURL:  cfg.BaseURL,
	}, nil
}

func (s *LocalStore) Upload(ctx context.Context, namespace string, reader io.Reader, contentType string) (string, error) {
	key := newObjectKey(namespace, contentType)
	fullPath := filepath.Join(s.basePath, key)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return fmt.Sprintf("%s/%s", s.baseURL, key), nil
}

func (s *LocalStore) Delete(ctx context.Context, url string) error {
	key := KeyFromURL(s.baseURL, url)
	if key == "" {
		return fmt.Errorf("url %q is not served by this store", url)
	}

	fullPath := filepath.Join(s.basePath, key)
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}
