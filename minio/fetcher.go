// Package minio provides an hq.Fetcher that reads s3://bucket/key objects
// from S3-compatible object storage using minio-go.
package minio

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fwojciec/hq"
	"github.com/fwojciec/hq/gzip"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// DefaultEndpoint is the AWS S3 endpoint.
const DefaultEndpoint = "s3.amazonaws.com"

// Config represents object storage connection settings.
type Config struct {
	// Endpoint is the storage server address (e.g., "minio:9000").
	Endpoint string
	// AccessKey and SecretKey authenticate requests. Both empty means
	// anonymous access.
	AccessKey string
	SecretKey string
	// UseSSL enables HTTPS connections.
	UseSSL bool
	// Region skips bucket location lookups when set.
	Region string
}

// NewConfig returns a Config with default values.
func NewConfig() Config {
	return Config{
		Endpoint: DefaultEndpoint,
		UseSSL:   true,
	}
}

// Ensure Fetcher implements hq.Fetcher at compile time.
var _ hq.Fetcher = (*Fetcher)(nil)

// Fetcher reads objects addressed as s3://bucket/key. A requested byte
// range is forwarded as a ranged read and gzip-compressed objects are
// decompressed.
type Fetcher struct {
	client *miniogo.Client
}

// NewFetcher creates a new Fetcher.
func NewFetcher(cfg Config) (*Fetcher, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("object storage endpoint is empty")
	}

	client, err := miniogo.New(cfg.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &Fetcher{client: client}, nil
}

// Fetch reads the object at loc.
func (f *Fetcher) Fetch(ctx context.Context, loc hq.Location) (string, error) {
	bucket, key, err := hq.ParseObjectURL(loc.URL)
	if err != nil {
		return "", err
	}

	opts := miniogo.GetObjectOptions{}
	if loc.HasRange() {
		if err := opts.SetRange(loc.Offset, loc.End()); err != nil {
			return "", hq.Errorf(hq.EINVALID, "invalid range: %v", err)
		}
	}

	obj, err := f.client.GetObject(ctx, bucket, key, opts)
	if err != nil {
		return "", fmt.Errorf("get s3://%s/%s: %w", bucket, key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return "", fmt.Errorf("read s3://%s/%s: %w", bucket, key, err)
	}

	return gzip.Decode(data)
}

// Close releases resources. The minio client holds no resources that need
// explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
