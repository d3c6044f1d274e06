package minio

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/dtroode/convo-server/internal/config"
	"github.com/dtroode/convo-server/internal/model"
)

const transcriptContentType = "application/json"

// objectAPI is the subset of *minio.Client the archive uses.
type objectAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

var _ model.Storage = (*Archive)(nil)

// Archive writes conversation transcripts into a single bucket.
type Archive struct {
	api    objectAPI
	bucket string
}

// NewArchive connects to the object store described by cfg and makes sure
// the transcript bucket exists.
func NewArchive(ctx context.Context, cfg config.Storage) (*Archive, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object storage client: %w", err)
	}

	return newArchive(ctx, client, cfg.Bucket)
}

func newArchive(ctx context.Context, api objectAPI, bucket string) (*Archive, error) {
	a := &Archive{
		api:    api,
		bucket: bucket,
	}

	if err := a.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	return a, nil
}

func (a *Archive) ensureBucket(ctx context.Context) error {
	exists, err := a.api.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if exists {
		return nil
	}

	if err := a.api.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	return nil
}

// Upload stores a transcript under key. A negative size streams the body.
func (a *Archive) Upload(ctx context.Context, key string, reader io.Reader, size int64) error {
	_, err := a.api.PutObject(ctx, a.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: transcriptContentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload transcript %s: %w", key, err)
	}
	return nil
}
