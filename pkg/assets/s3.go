package assets

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Store keeps recipe images in an S3-compatible bucket (MinIO in
// development, any S3 endpoint in production).
type Store struct {
	s3Client *s3.Client
	uploader *manager.Uploader
	bucket   string
	baseURL  string
}

// Config holds object storage connection details.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// NewStore builds an S3 client for the configured endpoint and verifies
// the bucket exists.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Endpoint == "" || cfg.AccessKey == "" || cfg.SecretKey == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("asset store endpoint, access key, secret key and bucket must be configured")
	}

	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	endpointURL := fmt.Sprintf("%s://%s", scheme, cfg.Endpoint)

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpointURL)
		o.UsePathStyle = true
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(cfg.Bucket)}); err != nil {
		return nil, fmt.Errorf("bucket %q is not reachable: %w", cfg.Bucket, err)
	}

	log.Printf("Asset store connected, bucket %q ready.", cfg.Bucket)

	return &Store{
		s3Client: client,
		uploader: manager.NewUploader(client),
		bucket:   cfg.Bucket,
		baseURL:  fmt.Sprintf("%s/%s", endpointURL, cfg.Bucket),
	}, nil
}

// Upload stores an object under the given key and returns its public URL.
func (s *Store) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %s to bucket %s: %w", key, s.bucket, err)
	}
	return fmt.Sprintf("%s/%s", s.baseURL, key), nil
}

// Delete removes a previously uploaded object. It accepts either a bare
// object key or a URL returned by Upload.
func (s *Store) Delete(ctx context.Context, ref string) error {
	key := strings.TrimPrefix(strings.TrimPrefix(ref, s.baseURL), "/")
	_, err := s.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s from bucket %s: %w", key, s.bucket, err)
	}
	return nil
}
