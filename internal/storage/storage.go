// Package storage persists uploaded résumé files and returns their public URL.
package storage

import (
	"context"
	"fmt"

	"github.com/justsurfingit/carreira-ia/internal/config"
)

type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// New picks the backend named by cfg.Provider.
func New(cfg config.StorageConfig) (BlobStore, error) {
	switch cfg.Provider {
	case "cloudinary":
		return NewCloudinary(cfg)
	case "local", "":
		return NewLocal(cfg.LocalDir, cfg.PublicBaseURL)
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
	}
}
