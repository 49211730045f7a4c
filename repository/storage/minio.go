// repository/storage/minio.go
package storage

import (
	"context"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ProofStorage resolves stored payment-proof paths to temporary signed URLs
// for admin review. Uploads happen from the client UI; the core never writes.
type ProofStorage interface {
	PresignProofURL(ctx context.Context, path string, ttl time.Duration) (string, error)
}

type minioStorage struct {
	client *minio.Client
	bucket string
}

func NewMinio(endpoint, accessKey, secretKey string, useSSL bool, bucket string) (ProofStorage, error) {
	c, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &minioStorage{client: c, bucket: bucket}, nil
}

func (m *minioStorage) PresignProofURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	u, err := m.client.PresignedGetObject(ctx, m.bucket, path, ttl, url.Values{})
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
