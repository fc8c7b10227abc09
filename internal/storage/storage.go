package storage

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/etiquetas-qr/internal/config"
	"github.com/etiquetas-qr/internal/constants"

	"github.com/google/uuid"
)

// ObjectStorage stores uploaded assets (logos, delivery evidence) and
// serves them back for PDF rendering. Paths are forward-slash keys
// relative to the store root.
type ObjectStorage interface {
	// Save writes data under key and returns the stored key.
	Save(ctx context.Context, key string, data []byte, contentType string) (string, error)
	// Get reads a stored object.
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete removes a stored object. Missing objects are not an error.
	Delete(ctx context.Context, key string) error
	// URL returns the public URL for a stored key.
	URL(key string) string
}

// New builds the configured driver.
func New(cfg *config.StorageConfig) (ObjectStorage, error) {
	if cfg == nil {
		return NewLocal(config.LocalStorageConfig{})
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", constants.StorageDriverLocal:
		return NewLocal(cfg.Local)
	case constants.StorageDriverS3:
		return NewS3(cfg.S3)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}

// ObjectName builds "{prefix}/{base}_{8-char-uuid}{ext}" so repeated
// uploads for the same base never collide.
func ObjectName(prefix, base, ext string) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	base = sanitizeBase(base)
	return path.Join(prefix, fmt.Sprintf("%s_%s%s", base, suffix, ext))
}

func sanitizeBase(base string) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return "file"
	}
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}
