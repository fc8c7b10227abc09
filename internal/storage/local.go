package storage

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/etiquetas-qr/internal/config"
)

// LocalStorage keeps objects on disk under a base directory. The
// router serves the directory under the configured base URL.
type LocalStorage struct {
	baseDir string
	baseURL string
}

// NewLocal builds a disk-backed store.
func NewLocal(cfg config.LocalStorageConfig) (*LocalStorage, error) {
	baseDir := strings.TrimSpace(cfg.BaseDir)
	if baseDir == "" {
		baseDir = "./uploads"
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = "/uploads"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, err
	}
	return &LocalStorage{baseDir: baseDir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Save writes data under key.
func (s *LocalStorage) Save(_ context.Context, key string, data []byte, _ string) (string, error) {
	full := s.fullPath(key)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", err
	}
	return key, nil
}

// Get reads a stored object.
func (s *LocalStorage) Get(_ context.Context, key string) ([]byte, error) {
	return os.ReadFile(s.fullPath(key))
}

// Delete removes a stored object.
func (s *LocalStorage) Delete(_ context.Context, key string) error {
	err := os.Remove(s.fullPath(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// URL returns the public URL for key.
func (s *LocalStorage) URL(key string) string {
	return s.baseURL + "/" + strings.TrimLeft(key, "/")
}

func (s *LocalStorage) fullPath(key string) string {
	clean := path.Clean("/" + key) // stop traversal outside baseDir
	return filepath.Join(s.baseDir, filepath.FromSlash(clean))
}
