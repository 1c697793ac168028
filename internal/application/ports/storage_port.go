package ports

import (
	"context"
	"time"
)

// ObjectStorage puerto de salida hacia el almacenamiento de archivos (S3, MinIO, memoria).
// Los documentos de los clientes se suben directamente con una URL firmada; el
// servidor solo escribe los PDF de facturas con Put.
type ObjectStorage interface {
	PresignUpload(ctx context.Context, key, contentType string, ttl time.Duration) (string, error)
	PresignDownload(ctx context.Context, key string, ttl time.Duration) (string, error)
	Put(ctx context.Context, key, contentType string, body []byte) error
}
