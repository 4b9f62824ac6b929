package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/PropertyLens/PropertyLens/internal/db/models"
)

// r2Region is the region R2 expects in signatures. Setting it skips the bucket location lookup.
const r2Region = "auto"

// ErrPublicURLEmpty is returned when a Cloudflare R2 storage has no public URL.
var ErrPublicURLEmpty = errors.New("cloudflare public url is empty")

// R2Storage keeps objects in a Cloudflare R2 bucket through its S3 compatible API.
type R2Storage struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

var _ Storage = (*R2Storage)(nil)

// NewR2Storage creates the R2 client. endpoint is <account>.r2.cloudflarestorage.com.
// R2 buckets have no public URL of their own, so publicURL (r2.dev or a custom domain) is required.
func NewR2Storage(endpoint, accessKey, secretKey, bucket, publicURL string) (*R2Storage, error) {
	if bucket == "" {
		return nil, ErrBucketEmpty
	}

	if publicURL == "" {
		return nil, ErrPublicURLEmpty
	}

	client, err := minio.New(strings.TrimPrefix(endpoint, "https://"), &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: true,
		Region: r2Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init r2 client: %w", err)
	}

	return &R2Storage{client: client, bucket: bucket, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

// Provider implements Storage.
func (*R2Storage) Provider() models.StorageProvider { return models.StorageCloudflare }

// Put implements Storage.
func (r *R2Storage) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := r.client.PutObject(ctx, r.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	return r.URL(key), nil
}

// Delete implements Storage.
func (r *R2Storage) Delete(ctx context.Context, key string) error {
	if err := r.client.RemoveObject(ctx, r.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete object: %w", err)
	}

	return nil
}

// URL returns the public URL of key.
func (r *R2Storage) URL(key string) string {
	return r.publicURL + "/" + key
}
