package storage

import (
	"context"
	stderrors "errors"
	"io"

	"resumeqa/internal/config"
	"resumeqa/internal/errors"
	"resumeqa/internal/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Store reads resumes from AWS S3 or an S3-compatible endpoint.
// Containers map to buckets.
type S3Store struct {
	client *s3.Client
	logger *errors.Logger
}

// NewS3Store loads the default AWS configuration, overriding region,
// static credentials and endpoint when they are configured.
func NewS3Store(ctx context.Context, cfg config.S3StorageConfig, logger *errors.Logger) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "failed to load AWS configuration", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	logger.Debug("S3 client created", "region", awsCfg.Region, "endpoint", cfg.Endpoint)
	return &S3Store{client: client, logger: logger}, nil
}

func (s *S3Store) Backend() string { return "s3" }

func (s *S3Store) List(ctx context.Context, container string) ([]types.ResumeRef, error) {
	var refs []types.ResumeRef
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(container),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, storageFailed("list", container, err)
		}
		for _, obj := range page.Contents {
			refs = append(refs, types.ResumeRef{
				Name:         aws.ToString(obj.Key),
				Container:    container,
				Size:         aws.ToInt64(obj.Size),
				LastModified: aws.ToTime(obj.LastModified),
			})
		}
	}
	return refs, nil
}

func (s *S3Store) Get(ctx context.Context, container, name string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(container),
		Key:    aws.String(name),
	})
	if err != nil {
		var noKey *s3types.NoSuchKey
		if stderrors.As(err, &noKey) {
			return nil, notFound(container, name, err)
		}
		return nil, storageFailed("download", container, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, storageFailed("download", container, err)
	}
	return data, nil
}
