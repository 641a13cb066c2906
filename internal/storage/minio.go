package storage

import (
	"context"
	"io"

	"resumeqa/internal/config"
	"resumeqa/internal/errors"
	"resumeqa/internal/types"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOStore reads resumes from a MinIO server. Containers map to buckets.
type MinIOStore struct {
	client *minio.Client
	logger *errors.Logger
}

// NewMinIOStore connects to cfg.Endpoint. With CreateBucket set, the
// default container is created when it does not exist yet.
func NewMinIOStore(ctx context.Context, cfg config.MinIOStorageConfig, container string, logger *errors.Logger) (*MinIOStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "failed to create MinIO client", err)
	}

	m := &MinIOStore{client: client, logger: logger}
	if cfg.CreateBucket {
		if err := m.ensureBucketExists(ctx, container); err != nil {
			return nil, err
		}
	}

	logger.Debug("MinIO client created", "endpoint", cfg.Endpoint, "ssl", cfg.UseSSL)
	return m, nil
}

func (m *MinIOStore) ensureBucketExists(ctx context.Context, bucket string) error {
	exists, err := m.client.BucketExists(ctx, bucket)
	if err != nil {
		return storageFailed("bucket check", bucket, err)
	}
	if exists {
		return nil
	}
	if err := m.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		return storageFailed("bucket create", bucket, err)
	}
	m.logger.Info("Created MinIO bucket", "bucket", bucket)
	return nil
}

func (m *MinIOStore) Backend() string { return "minio" }

func (m *MinIOStore) List(ctx context.Context, container string) ([]types.ResumeRef, error) {
	var refs []types.ResumeRef
	for obj := range m.client.ListObjects(ctx, container, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return nil, storageFailed("list", container, obj.Err)
		}
		refs = append(refs, types.ResumeRef{
			Name:         obj.Key,
			Container:    container,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}
	return refs, nil
}

func (m *MinIOStore) Get(ctx context.Context, container, name string) ([]byte, error) {
	obj, err := m.client.GetObject(ctx, container, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, storageFailed("download", container, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, notFound(container, name, err)
		}
		return nil, storageFailed("download", container, err)
	}
	return data, nil
}
