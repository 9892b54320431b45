// Package b2 implements the ObjectStore interface for Backblaze B2 through
// its S3-compatible API.
package b2

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/Charlelielataste/weeding/internal/storage"
)

const healthCheckTimeout = 5 * time.Second

// B2Config holds connection settings for a B2 bucket
type B2Config struct {
	Bucket    string
	Region    string
	Endpoint  string // e.g. https://s3.us-west-004.backblazeb2.com
	KeyID     string
	Key       string
	PublicURL string // Base URL public file links are built from
}

// B2Storage implements storage.ObjectStore on a B2 bucket
type B2Storage struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

// New creates a B2Storage and verifies bucket access with a HEAD request
func New(ctx context.Context, cfg B2Config) (*B2Storage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("B2 bucket name is required")
	}
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("B2 endpoint is required")
	}

	var optFuncs []func(*config.LoadOptions) error
	if cfg.Region != "" {
		optFuncs = append(optFuncs, config.WithRegion(cfg.Region))
	}
	if cfg.KeyID != "" && cfg.Key != "" {
		optFuncs = append(optFuncs, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.KeyID, cfg.Key, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, optFuncs...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// B2's S3 layer requires path-style addressing
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	if _, err := client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(cfg.Bucket),
	}); err != nil {
		return nil, storage.Classify("HeadBucket", "", fmt.Errorf("failed to access B2 bucket %q: %w", cfg.Bucket, err))
	}

	slog.Info("B2 storage initialized",
		"bucket", cfg.Bucket,
		"region", cfg.Region,
		"endpoint", cfg.Endpoint,
	)

	return &B2Storage{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
	}, nil
}

// validateKey rejects keys that could escape the bucket namespace
func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("empty key not allowed")
	}
	if strings.ContainsRune(key, '\x00') {
		return fmt.Errorf("null bytes not allowed in key")
	}
	if strings.Contains(key, "..") {
		return fmt.Errorf("path traversal not allowed: %s", key)
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == "/" {
		return fmt.Errorf("invalid key: %s", key)
	}
	return nil
}

func (b *B2Storage) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if err := validateKey(key); err != nil {
		return storage.Classify("Put", key, err)
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if size >= 0 {
		input.ContentLength = aws.Int64(size)
	}

	start := time.Now()
	if _, err := b.client.PutObject(ctx, input); err != nil {
		return storage.Classify("Put", key, err)
	}

	slog.Info("object stored",
		"key", key,
		"size", size,
		"content_type", contentType,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return nil
}

func (b *B2Storage) List(ctx context.Context, prefix string, limit int, cursor string) (*storage.ListResult, error) {
	input := &s3.ListObjectsV2Input{
		Bucket:  aws.String(b.bucket),
		Prefix:  aws.String(prefix),
		MaxKeys: aws.Int32(int32(limit)),
	}
	if cursor != "" {
		input.ContinuationToken = aws.String(cursor)
	}

	out, err := b.client.ListObjectsV2(ctx, input)
	if err != nil {
		return nil, storage.Classify("List", prefix, err)
	}

	result := &storage.ListResult{
		Objects: make([]storage.ObjectInfo, 0, len(out.Contents)),
		HasMore: out.IsTruncated != nil && *out.IsTruncated,
	}
	if out.NextContinuationToken != nil {
		result.NextCursor = *out.NextContinuationToken
	}

	for _, obj := range out.Contents {
		if obj.Key == nil {
			continue
		}
		info := storage.ObjectInfo{Key: *obj.Key}
		if obj.Size != nil {
			info.Size = *obj.Size
		}
		if obj.LastModified != nil {
			info.LastModified = *obj.LastModified
		}
		result.Objects = append(result.Objects, info)
	}

	return result, nil
}

func (b *B2Storage) PublicURL(key string) string {
	if b.publicURL == "" {
		return key
	}
	return b.publicURL + "/" + key
}

func (b *B2Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	if _, err := b.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(b.bucket),
	}); err != nil {
		return storage.Classify("HealthCheck", "", err)
	}
	return nil
}
