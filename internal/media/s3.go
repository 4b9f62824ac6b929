package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/PropertyLens/PropertyLens/internal/db/models"
)

// ErrBucketEmpty is returned when an object storage provider has no bucket configured.
var ErrBucketEmpty = errors.New("media bucket is empty")

// S3Storage keeps objects in an AWS S3 bucket with public-read ACL.
type S3Storage struct {
	client    s3iface.S3API
	bucket    string
	region    string
	publicURL string
}

var _ Storage = (*S3Storage)(nil)

// NewS3Storage creates an S3 session for region. Credentials come from the usual AWS environment.
// publicURL, e.g. a CloudFront distribution, replaces the bucket URL in returned URLs.
func NewS3Storage(bucket, region, publicURL string) (*S3Storage, error) {
	if bucket == "" {
		return nil, ErrBucketEmpty
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 session: %w", err)
	}

	return NewS3StorageWithClient(s3.New(sess), bucket, region, publicURL), nil
}

// NewS3StorageWithClient wraps an existing client.
func NewS3StorageWithClient(client s3iface.S3API, bucket, region, publicURL string) *S3Storage {
	return &S3Storage{
		client:    client,
		bucket:    bucket,
		region:    region,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

// Provider implements Storage.
func (*S3Storage) Provider() models.StorageProvider { return models.StorageS3 }

// Put implements Storage.
func (s *S3Storage) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		ACL:         aws.String(s3.ObjectCannedACLPublicRead),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	return s.URL(key), nil
}

// Delete implements Storage.
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}

	return nil
}

// URL returns the public URL of key.
func (s *S3Storage) URL(key string) string {
	if s.publicURL != "" {
		return s.publicURL + "/" + key
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
