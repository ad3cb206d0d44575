// Package minio implements storage.Provider against any S3-compatible
// object store.
package minio

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/stallcraft/stallcraft/internal/config"
	"github.com/stallcraft/stallcraft/internal/storage"
)

// Provider stores media blobs in a single bucket, addressed path-style.
type Provider struct {
	client  *minio.Client
	bucket  string
	baseURL string
	logger  *slog.Logger
}

// New creates a minio-backed storage provider. The bucket is created on
// EnsureBucket, not here, so construction stays side-effect free.
func New(log *slog.Logger, cfg config.StorageConfig) (*Provider, error) {
	if log == nil {
		log = slog.Default()
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("storage client: %w", err)
	}

	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		baseURL = scheme + "://" + cfg.Endpoint
	}

	return &Provider{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  log.With(slog.String("service", "storage"), slog.String("bucket", cfg.Bucket)),
	}, nil
}

// EnsureBucket creates the configured bucket if it does not exist yet.
func (p *Provider) EnsureBucket(ctx context.Context) error {
	exists, err := p.client.BucketExists(ctx, p.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := p.client.MakeBucket(ctx, p.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket: %w", err)
	}
	p.logger.Info("created storage bucket")
	return nil
}

func (p *Provider) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	_, err := p.client.PutObject(ctx, p.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

func (p *Provider) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := p.client.GetObject(ctx, p.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}
	// GetObject defers the request; surface missing keys now instead of on
	// the first Read.
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		return nil, fmt.Errorf("stat object %s: %w", key, err)
	}
	return obj, nil
}

func (p *Provider) Delete(ctx context.Context, key string) error {
	if err := p.client.RemoveObject(ctx, p.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s: %w", key, err)
	}
	return nil
}

func (p *Provider) List(ctx context.Context, prefix string) ([]storage.Object, error) {
	var objects []storage.Object
	for info := range p.client.ListObjects(ctx, p.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if info.Err != nil {
			return nil, fmt.Errorf("list objects under %s: %w", prefix, info.Err)
		}
		objects = append(objects, storage.Object{
			Key:          info.Key,
			Size:         info.Size,
			LastModified: info.LastModified,
		})
	}
	return objects, nil
}

func (p *Provider) PublicURL(key string) string {
	return storage.Locator{Bucket: p.bucket, Key: key}.PublicURL(p.baseURL)
}
