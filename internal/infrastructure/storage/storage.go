// Package storage adaptadores de ports.ObjectStorage: S3, MinIO y memoria.
package storage

import (
	"context"
	"fmt"

	"github.com/jhoicas/onboarding-api/internal/application/ports"
	"github.com/jhoicas/onboarding-api/pkg/config"
)

// New elige el adaptador según STORAGE_DRIVER.
func New(ctx context.Context, cfg config.StorageConfig) (ports.ObjectStorage, error) {
	switch cfg.Driver {
	case "s3":
		return NewS3Storage(ctx, cfg)
	case "minio":
		st, err := NewMinioStorage(cfg)
		if err != nil {
			return nil, err
		}
		if err := st.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return st, nil
	case "memory", "":
		return NewMemoryStorage(cfg.Bucket), nil
	default:
		return nil, fmt.Errorf("storage: driver desconocido %q", cfg.Driver)
	}
}
