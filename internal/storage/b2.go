package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rougebyt/b2-backend/internal/config"
)

// b2Store implements ObjectStore against Backblaze B2 through its S3-compatible API
type b2Store struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
}

// NewB2Store authorizes a B2 session. Every call is attempted once; the client never retries.
func NewB2Store(ctx context.Context, cfg config.B2Config) (*b2Store, error) {
	if cfg.KeyID == "" || cfg.ApplicationKey == "" || cfg.BucketName == "" {
		return nil, fmt.Errorf("b2: %w", ErrNotConfigured)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.KeyID, cfg.ApplicationKey, "")),
		awsconfig.WithRetryer(func() aws.Retryer { return aws.NopRetryer{} }),
	)
	if err != nil {
		return nil, fmt.Errorf("b2: failed to load client config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
		// B2 rejects the flexible checksum headers newer SDKs send by default
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	})

	return &b2Store{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.BucketName,
	}, nil
}

// Upload stores the payload under key and returns the B2 version id
func (s *b2Store) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (*ObjectInfo, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	out, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("b2: failed to upload %s: %w", key, err)
	}

	return &ObjectInfo{
		Key:       key,
		VersionID: aws.ToString(out.VersionId),
		Size:      size,
	}, nil
}

// Delete removes one version of key, or the latest one when versionID is empty
func (s *b2Store) Delete(ctx context.Context, key, versionID string) error {
	input := &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}
	if versionID != "" {
		input.VersionId = aws.String(versionID)
	}

	if _, err := s.client.DeleteObject(ctx, input); err != nil {
		return fmt.Errorf("b2: failed to delete %s: %w", key, err)
	}
	return nil
}

// SignedURL presigns a GET for key valid for ttl
func (s *b2Store) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("b2: failed to sign %s: %w", key, err)
	}
	return req.URL, nil
}
