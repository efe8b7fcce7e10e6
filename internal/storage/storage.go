package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/memberdir/apiserver/config"
)

// Backend names accepted in EXPORT_BACKEND.
const (
	BackendMinio = "minio"
	BackendGCS   = "gcs"
)

// ObjectStorage defines the object operations the export command uses.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Bucket() string
}

// NewObjectStorage constructs the storage backend named in config.
func NewObjectStorage(ctx context.Context, cfg config.Config) (ObjectStorage, error) {
	switch cfg.ExportBackend {
	case BackendMinio:
		return NewMinioClient(cfg.Minio)
	case BackendGCS:
		return NewGCSClient(ctx, cfg.GCS)
	default:
		return nil, fmt.Errorf("unsupported export backend %q", cfg.ExportBackend)
	}
}
