// Package storage fetches resume documents from R2/S3 object storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const downloadAttempts = 3

var ErrNotObjectURI = errors.New("not an object storage URI")

type R2Config struct {
	AccountID string
	Bucket    string
	AccessKey string
	SecretKey string
}

// ObjectGetter is the part of the S3 client used here.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type Store struct {
	client ObjectGetter
	bucket string
	// backoff is the base wait between download attempts.
	backoff time.Duration
}

// New builds a store for Cloudflare R2, or plain S3 when AccountID is empty.
func New(ctx context.Context, cfg R2Config) (*Store, error) {
	awsConfig, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("error creating aws config: %w", err)
	}
	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.AccountID != "" {
			o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID))
		}
	})
	return NewWithClient(client, cfg.Bucket), nil
}

func NewWithClient(client ObjectGetter, defaultBucket string) *Store {
	return &Store{client: client, bucket: defaultBucket, backoff: 500 * time.Millisecond}
}

// Fetch downloads the object named by an r2:// or s3:// URI. An empty bucket
// ("r2:///key") selects the configured default.
func (s *Store) Fetch(ctx context.Context, uri string) ([]byte, error) {
	bucket, key, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}
	if bucket == "" {
		bucket = s.bucket
	}
	return retry(ctx, downloadAttempts, s.backoff, func() ([]byte, error) {
		return s.download(ctx, bucket, key)
	})
}

func (s *Store) download(ctx context.Context, bucket, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer out.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, out.Body); err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}
	return buf.Bytes(), nil
}

// IsObjectURI reports whether s names an object rather than a local file.
func IsObjectURI(s string) bool {
	return strings.HasPrefix(s, "r2://") || strings.HasPrefix(s, "s3://")
}

func ParseURI(uri string) (bucket, key string, err error) {
	var rest string
	switch {
	case strings.HasPrefix(uri, "r2://"):
		rest = strings.TrimPrefix(uri, "r2://")
	case strings.HasPrefix(uri, "s3://"):
		rest = strings.TrimPrefix(uri, "s3://")
	default:
		return "", "", fmt.Errorf("%w: %s", ErrNotObjectURI, uri)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if key == "" {
		return "", "", fmt.Errorf("%w: missing object key in %s", ErrNotObjectURI, uri)
	}
	return bucket, key, nil
}

// retry retries fn up to attempts times, waiting backoff*(i+1) between tries.
func retry[T any](ctx context.Context, attempts int, backoff time.Duration, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for i := 0; i < attempts; i++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err
		slog.Warn("object download failed", "component", "storage", "attempt", i+1, "error", err)
		if i == attempts-1 {
			break
		}
		select {
		case <-time.After(backoff * time.Duration(i+1)):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
	return zero, fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}
