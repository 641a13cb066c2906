// Package storage lists and downloads resumes from blob storage.
package storage

import (
	"context"
	"fmt"

	"resumeqa/internal/config"
	"resumeqa/internal/errors"
	"resumeqa/internal/types"
)

// BlobStore is a container/object store holding resume files.
type BlobStore interface {
	// List returns every object in container.
	List(ctx context.Context, container string) ([]types.ResumeRef, error)
	// Get downloads one object. Missing objects yield a NotFound AppError.
	Get(ctx context.Context, container, name string) ([]byte, error)
	// Backend names the implementation, e.g. "azure".
	Backend() string
}

// New builds the BlobStore selected by cfg.Backend.
func New(ctx context.Context, cfg config.StorageConfig, logger *errors.Logger) (BlobStore, error) {
	logger = logger.With("component", "storage", "backend", cfg.Backend)

	switch cfg.Backend {
	case "azure":
		return NewAzureStore(cfg.Azure, logger)
	case "s3":
		return NewS3Store(ctx, cfg.S3, logger)
	case "minio":
		return NewMinIOStore(ctx, cfg.MinIO, cfg.Container, logger)
	case "local":
		return NewLocalStore(cfg.Local.Root, logger), nil
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("unsupported storage backend %q", cfg.Backend), nil)
	}
}

func notFound(container, name string, cause error) error {
	return errors.NewNotFoundError(errors.ErrCodeFileNotFound,
		fmt.Sprintf("%s not found in container %s", name, container), cause).
		WithContext("container", container).
		WithContext("resume", name)
}

func storageFailed(op, container string, cause error) error {
	return errors.NewStorageError(errors.ErrCodeStorageFailed,
		fmt.Sprintf("%s failed for container %s", op, container), cause).
		WithContext("container", container)
}
