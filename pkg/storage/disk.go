// Package storage writes export artifacts to a named disk:
//   - "local": a directory on the local filesystem (STORAGE_LOCAL_ROOT)
//   - "s3":    an S3-compatible bucket (AWS S3, MinIO, R2)
//
//	disk, err := storage.Open(ctx, "s3")
//	err = disk.Put(ctx, "exports/orders.csv", r)
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/shashiranjanraj/orderdesk/config"
)

// Disk is implemented by every storage driver.
type Disk interface {
	// Put writes r to path, replacing any existing object.
	Put(ctx context.Context, path string, r io.Reader) error
	// Get opens path for reading. The caller closes it.
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	Exists(ctx context.Context, path string) (bool, error)
	// Delete removes path; a missing path is not an error.
	Delete(ctx context.Context, path string) error
	// URL returns the public URL for path.
	URL(path string) string
}

// Open returns the disk called name. An empty name selects STORAGE_DISK.
func Open(ctx context.Context, name string) (Disk, error) {
	if name == "" {
		name = config.StorageDefault()
	}
	switch name {
	case "local":
		return NewLocal(config.StorageLocalRoot(), config.StorageURL()), nil
	case "s3":
		return NewS3(ctx, S3Options{
			Bucket:   config.StorageS3Bucket(),
			Region:   config.StorageS3Region(),
			Key:      config.StorageS3Key(),
			Secret:   config.StorageS3Secret(),
			Endpoint: config.StorageS3Endpoint(),
			BaseURL:  config.StorageS3URL(),
		})
	default:
		return nil, fmt.Errorf("storage: unknown disk %q", name)
	}
}
