package photostore

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Minio stores photos in an S3-compatible bucket
type Minio struct {
	client   *minio.Client
	bucket   string
	endpoint string
	secure   bool
}

// NewMinio connects to the endpoint and creates the bucket when missing
func NewMinio(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool) (*Minio, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", bucket, err)
		}
	}

	return &Minio{client: client, bucket: bucket, endpoint: endpoint, secure: useSSL}, nil
}

func (s *Minio) Upload(ctx context.Context, file io.Reader, filename string, size int64) (*StoredPhoto, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	objectName := "reports/" + uuid.NewString() + ext

	info, err := s.client.PutObject(ctx, s.bucket, objectName, file, size, minio.PutObjectOptions{
		ContentType: contentTypeFor(filename),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}

	scheme := "http"
	if s.secure {
		scheme = "https"
	}

	return &StoredPhoto{
		URI:      fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpoint, s.bucket, objectName),
		PublicID: objectName,
		Filename: filename,
		Size:     info.Size,
		Format:   strings.TrimPrefix(ext, "."),
	}, nil
}

func (s *Minio) Delete(ctx context.Context, publicID string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, publicID, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}
