package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/freshcast/backend-go/internal/config"
)

// ErrObjectNotFound is returned by Get for keys that do not exist.
var ErrObjectNotFound = errors.New("object not found")

// ObjectStore captures the minimal operations needed to persist artifacts
// like the trained demand model across restarts and deployments.
type ObjectStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	Exists(ctx context.Context, key string) (bool, error)
}

// New builds the object store selected by configuration. The local
// filesystem backend is the default; "s3" selects a MinIO/S3-compatible
// remote.
func New(cfg config.StorageConfig, localRoot string) (ObjectStore, error) {
	switch cfg.Backend {
	case "", "local":
		return NewLocalStore(localRoot), nil
	case "s3", "minio":
		return NewMinioStore(cfg)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
